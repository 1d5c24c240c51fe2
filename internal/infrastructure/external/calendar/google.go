package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	apperrors "github.com/haiminhdev/meeting-agent/errors"
	"github.com/haiminhdev/meeting-agent/internal/domain/entities"
	"github.com/haiminhdev/meeting-agent/pkg/config"
	"github.com/haiminhdev/meeting-agent/pkg/retry"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Local wall-clock time as the Calendar API expects alongside a timeZone
const eventTimeLayout = "2006-01-02T15:04:05"

// GoogleClient pushes events to the Google Calendar API, authenticating with
// an OAuth2 token loaded from disk.
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	calendarID string
	timezone   string
	logger     *zap.Logger
}

// eventTime is the start/end shape of the Calendar API
type eventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type eventAttendee struct {
	Email string `json:"email"`
}

// googleEvent is the wire shape of a calendar event
type googleEvent struct {
	Summary     string                  `json:"summary"`
	Description string                  `json:"description,omitempty"`
	Start       eventTime               `json:"start"`
	End         eventTime               `json:"end"`
	Attendees   []eventAttendee         `json:"attendees,omitempty"`
	Location    string                  `json:"location,omitempty"`
	Reminders   entities.ReminderPolicy `json:"reminders"`
}

// EventResponse is the subset of the created-event payload we care about
type EventResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	HTMLLink string `json:"htmlLink"`
	Summary  string `json:"summary"`
}

type eventListResponse struct {
	Items []EventResponse `json:"items"`
}

// NewGoogleClient creates a calendar client from the stored OAuth2 token.
// The token file is expected to hold a JSON-serialized oauth2.Token obtained
// through a one-time consent flow.
func NewGoogleClient(cfg *config.CalendarConfig, logger *zap.Logger) (*GoogleClient, error) {
	token, err := loadToken(cfg.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar token: %w", err)
	}

	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(token))
	httpClient.Timeout = 30 * time.Second

	return &GoogleClient{
		httpClient: httpClient,
		baseURL:    defaultBaseURL,
		calendarID: cfg.CalendarID,
		timezone:   cfg.Timezone,
		logger:     logger,
	}, nil
}

func loadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var token oauth2.Token
	if err := json.NewDecoder(f).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to parse token file %s: %w", path, err)
	}
	return &token, nil
}

// CreateEvent inserts an event into the calendar and sends invitations to
// its attendees. Transient API failures are retried.
func (g *GoogleClient) CreateEvent(ctx context.Context, event entities.CalendarEvent) (*EventResponse, error) {
	body := googleEvent{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       eventTime{DateTime: event.Start.Format(eventTimeLayout), TimeZone: g.timezone},
		End:         eventTime{DateTime: event.End.Format(eventTimeLayout), TimeZone: g.timezone},
		Location:    event.Location,
		Reminders:   event.Reminders,
	}
	for _, email := range entities.ValidAttendees(event.Attendees) {
		body.Attendees = append(body.Attendees, eventAttendee{Email: email})
	}

	endpoint := fmt.Sprintf("%s/calendars/%s/events?sendUpdates=all", g.baseURL, url.PathEscape(g.calendarID))

	var created EventResponse
	err := retry.Do(ctx, func() error {
		return g.doJSON(ctx, http.MethodPost, endpoint, body, &created)
	})
	if err != nil {
		return nil, apperrors.ErrCalendarFailed("create event", err)
	}

	g.logger.Info("📆 Calendar event created",
		zap.String("summary", created.Summary),
		zap.String("html_link", created.HTMLLink))

	return &created, nil
}

// ListEvents returns upcoming events between timeMin and timeMax, ordered by
// start time. A zero timeMin means now; a zero timeMax means one week later.
func (g *GoogleClient) ListEvents(ctx context.Context, timeMin, timeMax time.Time, maxResults int) ([]EventResponse, error) {
	if timeMin.IsZero() {
		timeMin = time.Now().UTC()
	}
	if timeMax.IsZero() {
		timeMax = timeMin.Add(7 * 24 * time.Hour)
	}
	if maxResults <= 0 {
		maxResults = 10
	}

	query := url.Values{}
	query.Set("timeMin", timeMin.UTC().Format(time.RFC3339))
	query.Set("timeMax", timeMax.UTC().Format(time.RFC3339))
	query.Set("maxResults", fmt.Sprintf("%d", maxResults))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")

	endpoint := fmt.Sprintf("%s/calendars/%s/events?%s", g.baseURL, url.PathEscape(g.calendarID), query.Encode())

	var list eventListResponse
	if err := g.doJSON(ctx, http.MethodGet, endpoint, nil, &list); err != nil {
		return nil, err
	}
	return list.Items, nil
}

// DeleteEvent removes an event from the calendar
func (g *GoogleClient) DeleteEvent(ctx context.Context, eventID string) error {
	endpoint := fmt.Sprintf("%s/calendars/%s/events/%s", g.baseURL, url.PathEscape(g.calendarID), url.PathEscape(eventID))
	return g.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// CheckAvailability reports whether the time slot has no conflicting events
func (g *GoogleClient) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	events, err := g.ListEvents(ctx, start, end, 1)
	if err != nil {
		return false, err
	}
	return len(events) == 0, nil
}

func (g *GoogleClient) doJSON(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("calendar API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// SetBaseURL overrides the API endpoint, used in tests
func (g *GoogleClient) SetBaseURL(baseURL string) {
	g.baseURL = baseURL
}
