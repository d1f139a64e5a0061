package notify

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Abhinavj12/hackfest-2025/internal/config"
	"github.com/Abhinavj12/hackfest-2025/internal/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"
)

var testEvent = config.Event{
	Name:         "HackFest 2025",
	Date:         "March 15-16, 2025",
	Venue:        "IIT Delhi",
	ContactEmail: "contact@hackfest2025.com",
}

func testTeam() *model.Team {
	return &model.Team{
		ID:         "65c7a1f2e4b0a1b2c3d4e5f6",
		TeamName:   "Ctrl Alt Elite",
		TeamLeader: "Asha",
		Email:      "asha@x.com",
		College:    "IIT X",
		Members:    []string{"Ravi", "Meera"},
		Experience: model.ExperienceBeginner,
		Track:      model.TrackAI,
		Status:     model.StatusConfirmed,
	}
}

type fakeClient struct {
	err  error
	sent []*mail.Msg
}

func (f *fakeClient) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.sent = append(f.sent, messages...)
	return f.err
}

type senderFunc func(ctx context.Context, team *model.Team) error

func (f senderFunc) Send(ctx context.Context, team *model.Team) error {
	return f(ctx, team)
}

func TestComposer_Compose(t *testing.T) {
	email, err := NewComposer(testEvent).Compose(testTeam())
	require.NoError(t, err)

	assert.Equal(t, "🎉 HackFest 2025 Registration Confirmed!", email.Subject)
	for _, want := range []string{
		"Ctrl Alt Elite",
		"Asha",
		"IIT X",
		"<strong>Track:</strong> Ai",
		"<strong>Experience Level:</strong> Beginner",
		"Ravi, Meera",
		"March 15-16, 2025",
		"IIT Delhi",
		"mailto:contact@hackfest2025.com",
		`src="cid:checkin-qr"`,
	} {
		assert.Contains(t, email.HTML, want)
	}
	require.Greater(t, len(email.CheckinQR), 8)
	assert.Equal(t, []byte("\x89PNG"), email.CheckinQR[:4])
}

func TestComposer_EscapesTeamInput(t *testing.T) {
	team := testTeam()
	team.TeamName = `<script>alert("x")</script>`

	email, err := NewComposer(testEvent).Compose(team)
	require.NoError(t, err)

	assert.NotContains(t, email.HTML, "<script>")
	assert.Contains(t, email.HTML, "&lt;script&gt;")
}

func TestComposer_NilTeam(t *testing.T) {
	_, err := NewComposer(testEvent).Compose(nil)
	assert.Error(t, err)
}

func TestCheckinCode(t *testing.T) {
	assert.Equal(t, "hackfest:checkin:abc", CheckinCode("abc"))
}

func TestSMTPSender_Send(t *testing.T) {
	tests := []struct {
		name      string
		team      func() *model.Team
		clientErr error
		wantErr   bool
		wantSent  int
	}{
		{
			name:     "success",
			team:     testTeam,
			wantSent: 1,
		},
		{
			name:      "failure: smtp error",
			team:      testTeam,
			clientErr: errors.New("connection refused"),
			wantErr:   true,
			wantSent:  1,
		},
		{
			name: "failure: invalid recipient",
			team: func() *model.Team {
				team := testTeam()
				team.Email = "not an address"
				return team
			},
			wantErr:  true,
			wantSent: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{err: tt.clientErr}
			s := &SMTPSender{
				from:     "noreply@hackfest2025.com",
				composer: NewComposer(testEvent),
				client:   client,
			}

			err := s.Send(context.Background(), tt.team())

			require.Len(t, client.sent, tt.wantSent)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrDelivery)
				return
			}
			require.NoError(t, err)

			msg := client.sent[0]
			rcpts, err := msg.GetRecipients()
			require.NoError(t, err)
			assert.Equal(t, []string{"asha@x.com"}, rcpts)

			embeds := msg.GetEmbeds()
			require.Len(t, embeds, 1)
			assert.Equal(t, "checkin.png", embeds[0].Name)
			assert.Equal(t, "<checkin-qr>", embeds[0].Header.Get("Content-ID"))
		})
	}
}

func TestNewSender(t *testing.T) {
	s, err := NewSender(config.SMTP{Host: "smtp.example.com", Port: 587}, testEvent)
	require.NoError(t, err)
	assert.IsType(t, NopSender{}, s)
	assert.NoError(t, s.Send(context.Background(), testTeam()))

	s, err = NewSender(config.SMTP{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "bot@example.com",
		Password: "secret",
		Timeout:  time.Second,
	}, testEvent)
	require.NoError(t, err)
	smtp, ok := s.(*SMTPSender)
	require.True(t, ok)
	assert.Equal(t, "bot@example.com", smtp.from)
}

func TestDispatcher_DeliversAfterRequestEnds(t *testing.T) {
	var delivered atomic.Int32
	sender := senderFunc(func(ctx context.Context, team *model.Team) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		delivered.Add(1)
		return nil
	})

	d := NewDispatcher(sender, time.Second)

	reqCtx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Notify(reqCtx, testTeam())

	require.NoError(t, d.Wait(context.Background()))
	assert.Equal(t, int32(1), delivered.Load())
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	var calls atomic.Int32
	d := NewDispatcher(senderFunc(func(context.Context, *model.Team) error {
		calls.Add(1)
		return ErrDelivery
	}), 0)

	d.Notify(context.Background(), testTeam())
	d.Notify(context.Background(), testTeam())

	require.NoError(t, d.Wait(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, DefaultTimeout, d.timeout)
}

func TestDispatcher_NotifyDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	d := NewDispatcher(senderFunc(func(ctx context.Context, _ *model.Team) error {
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}), time.Minute)

	returned := make(chan struct{})
	go func() {
		d.Notify(context.Background(), testTeam())
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify blocked on delivery")
	}

	waitCtx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Wait(waitCtx), context.DeadlineExceeded)

	close(release)
	require.NoError(t, d.Wait(context.Background()))
}
