package contact

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func valid() Form {
	return Form{Name: "Ada", Email: "ada@example.com", Message: "Hello from the stars"}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		form Form
		want FieldErrors
	}{
		{name: "valid", form: valid(), want: nil},
		{name: "all empty", form: Form{Name: "  ", Message: "\n"}, want: FieldErrors{
			FieldName:    "Name is required",
			FieldEmail:   "Email is required",
			FieldMessage: "Message is required",
		}},
		{name: "bad email", form: Form{Name: "A", Email: "ada@example", Message: "long enough text"}, want: FieldErrors{
			FieldEmail: "Please enter a valid email",
		}},
		{name: "email with space", form: Form{Name: "A", Email: "a da@x.io", Message: "long enough text"}, want: FieldErrors{
			FieldEmail: "Please enter a valid email",
		}},
		{name: "short message after trim", form: Form{Name: "A", Email: "a@x.io", Message: "   short    "}, want: FieldErrors{
			FieldMessage: "Message must be at least 10 characters",
		}},
		{name: "exactly ten", form: Form{Name: "A", Email: "a@x.io", Message: "0123456789"}, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.form.Validate())
		})
	}
}

func TestFieldErrorsIsInvalid(t *testing.T) {
	err := error(Form{}.Validate())
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "email: Email is required")
}

func TestRelaySubmitPostsJSON(t *testing.T) {
	var got Form
	var header string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		header = r.Header.Get(SubmissionHeader)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewRelaySubmitter(srv.URL, time.Second)
	f := valid()
	f.Name = "  Ada  "
	res, err := s.Submit(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, "Ada", got.Name)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, res.ID, header)
	_, err = uuid.Parse(res.ID)
	assert.NoError(t, err)
}

func TestRelaySubmitNon2xxIsErrorWithoutRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewRelaySubmitter(srv.URL, time.Second).Submit(context.Background(), valid())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Status)
	assert.Equal(t, "rate limited", se.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRelaySubmitInvalidFormSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	_, err := NewRelaySubmitter(srv.URL, time.Second).Submit(context.Background(), Form{Name: "A"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Equal(t, int32(0), calls.Load())
}

func TestRelaySubmitRequiresEndpoint(t *testing.T) {
	_, err := NewRelaySubmitter("", 0).Submit(context.Background(), valid())
	assert.ErrorContains(t, err, "not configured")
}

func TestRelaySubmitHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRelaySubmitter(srv.URL, time.Second).Submit(ctx, valid())
	assert.ErrorIs(t, err, context.Canceled)
}
