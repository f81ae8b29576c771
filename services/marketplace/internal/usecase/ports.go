package usecase

import (
	"context"
	"io"
	"time"

	"souk-oman/pkg/queue"

	"golang.org/x/crypto/bcrypt"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Delayer simulates the latency of a remote identity provider.
type Delayer interface {
	Delay(ctx context.Context) error
}

type SleepDelayer struct {
	Duration time.Duration
}

func (d SleepDelayer) Delay(ctx context.Context) error {
	if d.Duration <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d.Duration)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay returns at once unless ctx is already done.
type NoDelay struct{}

func (NoDelay) Delay(ctx context.Context) error { return ctx.Err() }

// CodeVerifier checks phone verification codes.
type CodeVerifier interface {
	Verify(code string) bool
}

// StaticCodeVerifier accepts one fixed code. Only its bcrypt hash is kept.
type StaticCodeVerifier struct {
	hash []byte
}

func NewStaticCodeVerifier(code string) (*StaticCodeVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &StaticCodeVerifier{hash: hash}, nil
}

func (v *StaticCodeVerifier) Verify(code string) bool {
	return bcrypt.CompareHashAndPassword(v.hash, []byte(code)) == nil
}

// EventPublisher sends ad lifecycle events. *queue.Client implements it.
type EventPublisher interface {
	PublishAdEvent(ctx context.Context, event queue.AdEvent) error
}

// ImageStore keeps ad images. *s3.Client implements it.
type ImageStore interface {
	UploadImage(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteImage(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, bool)
}
