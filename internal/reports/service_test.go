package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apagon-map/internal/models"
)

// backendCounters tracks how many requests each backend endpoint received, so
// tests can assert that invalid or aborted submissions produce no traffic.
type backendCounters struct {
	uploads int64
	creates int64
}

func newBackend(t *testing.T, counters *backendCounters, failUpload bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files/upload":
			atomic.AddInt64(&counters.uploads, 1)
			if failUpload {
				http.Error(w, "storage down", http.StatusInternalServerError)
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]string{"uri": "https://cdn.example.com/r/abc.jpg"})
		case "/reports":
			atomic.AddInt64(&counters.creates, 1)
			var draft models.AddReport
			require.NoError(t, json.NewDecoder(r.Body).Decode(&draft))
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(models.Report{
				ID:          42,
				Description: draft.Description,
				PowerStatus: draft.PowerStatus,
				PhotoURL:    draft.ImageURI,
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func validDraft() models.AddReport {
	return models.AddReport{
		Latitude:    "18.48612",
		Longitude:   "-69.93121",
		Description: "Sin luz desde las 8pm",
		PowerStatus: models.NoPower,
	}
}

func TestSubmit_BlankDescriptionNeverHitsNetwork(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, false)
	defer srv.Close()

	service := NewService(NewClient(srv.URL), nil)
	draft := validDraft()
	draft.Description = "   "

	report, err := service.Submit(context.Background(), "tok", draft, &ImageAttachment{
		Filename: "photo.jpg",
		Data:     strings.NewReader("jpeg-bytes"),
	})

	assert.ErrorIs(t, err, ErrDescriptionRequired)
	assert.Nil(t, report)
	assert.Zero(t, atomic.LoadInt64(&counters.uploads))
	assert.Zero(t, atomic.LoadInt64(&counters.creates))
}

func TestSubmit_MissingCoordinates(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, false)
	defer srv.Close()

	service := NewService(NewClient(srv.URL), nil)
	draft := validDraft()
	draft.Latitude = ""

	_, err := service.Submit(context.Background(), "tok", draft, nil)

	assert.ErrorIs(t, err, ErrCoordinatesRequired)
	assert.Zero(t, atomic.LoadInt64(&counters.creates))
}

func TestSubmit_InvalidPowerStatus(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, false)
	defer srv.Close()

	service := NewService(NewClient(srv.URL), nil)
	draft := validDraft()
	draft.PowerStatus = "MAYBE"

	_, err := service.Submit(context.Background(), "tok", draft, nil)

	assert.ErrorIs(t, err, ErrInvalidPowerStatus)
	assert.Zero(t, atomic.LoadInt64(&counters.creates))
}

func TestSubmit_UploadFailureAbortsCreate(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, true)
	defer srv.Close()

	service := NewService(NewClient(srv.URL), nil)

	report, err := service.Submit(context.Background(), "tok", validDraft(), &ImageAttachment{
		Filename: "photo.jpg",
		Data:     strings.NewReader("jpeg-bytes"),
	})

	assert.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, int64(1), atomic.LoadInt64(&counters.uploads))
	assert.Zero(t, atomic.LoadInt64(&counters.creates), "create must not run after a failed upload")
}

func TestSubmit_WithImageSubstitutesURI(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, false)
	defer srv.Close()

	service := NewService(NewClient(srv.URL), nil)

	report, err := service.Submit(context.Background(), "tok", validDraft(), &ImageAttachment{
		Filename: "photo.jpg",
		Data:     strings.NewReader("jpeg-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), report.ID)
	assert.Equal(t, "https://cdn.example.com/r/abc.jpg", report.PhotoURL)
	assert.Equal(t, int64(1), atomic.LoadInt64(&counters.uploads))
	assert.Equal(t, int64(1), atomic.LoadInt64(&counters.creates))
}

func TestSubmit_WithoutImageSkipsUpload(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, false)
	defer srv.Close()

	service := NewService(NewClient(srv.URL), nil)

	report, err := service.Submit(context.Background(), "tok", validDraft(), nil)

	require.NoError(t, err)
	assert.Empty(t, report.PhotoURL)
	assert.Zero(t, atomic.LoadInt64(&counters.uploads))
	assert.Equal(t, int64(1), atomic.LoadInt64(&counters.creates))
}

// stubPublisher records announced reports and optionally fails.
type stubPublisher struct {
	published []int64
	fail      bool
}

func (p *stubPublisher) PublishReportCreated(_ context.Context, report *models.Report) error {
	if p.fail {
		return assert.AnError
	}
	p.published = append(p.published, report.ID)
	return nil
}

func TestSubmit_PublishesCreatedReport(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, false)
	defer srv.Close()

	publisher := &stubPublisher{}
	service := NewService(NewClient(srv.URL), publisher)

	_, err := service.Submit(context.Background(), "tok", validDraft(), nil)

	require.NoError(t, err)
	assert.Equal(t, []int64{42}, publisher.published)
}

func TestSubmit_PublishFailureIsNotFatal(t *testing.T) {
	var counters backendCounters
	srv := newBackend(t, &counters, false)
	defer srv.Close()

	service := NewService(NewClient(srv.URL), &stubPublisher{fail: true})

	report, err := service.Submit(context.Background(), "tok", validDraft(), nil)

	require.NoError(t, err)
	assert.Equal(t, int64(42), report.ID)
}
