package schedule

import (
	"context"
	"errors"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestSchedulerRegisterValidation(t *testing.T) {
	s := NewScheduler(clockwork.NewFakeClock(), logrus.NewEntry(logrus.New()))

	require.Error(t, s.Register(Job{Every: 1, Run: func(context.Context) error { return nil }}))
	require.Error(t, s.Register(Job{Name: "x", Run: func(context.Context) error { return nil }}))
	require.Error(t, s.Register(Job{Name: "x", Every: 1}))
	require.NoError(t, s.Register(Job{Name: "x", Every: 1, Run: func(context.Context) error { return nil }}))
}

func TestRunNowRecoversPanic(t *testing.T) {
	logger := logrus.New()
	s := NewScheduler(clockwork.NewFakeClock(), logrus.NewEntry(logger))

	// Must not propagate the panic.
	s.RunNow(context.Background(), Job{
		Name:  "panicky",
		Every: 1,
		Run:   func(context.Context) error { panic("boom") },
	})
}

func TestRunNowFailureIsIsolated(t *testing.T) {
	s := NewScheduler(clockwork.NewFakeClock(), logrus.NewEntry(logrus.New()))

	ran := false
	s.RunNow(context.Background(), Job{
		Name:  "failing",
		Every: 1,
		Run:   func(context.Context) error { return errors.New("sweep failed") },
	})
	s.RunNow(context.Background(), Job{
		Name:  "next",
		Every: 1,
		Run: func(context.Context) error {
			ran = true
			return nil
		},
	})
	require.True(t, ran)
}
