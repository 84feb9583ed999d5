package msgraph

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// eventFields are the calendar event properties MapEventToRegistration reads.
const eventFields = "id,subject,bodyPreview,isAllDay,isCancelled,sensitivity,showAs,start,end,location"

// Client is an authenticated Microsoft Graph API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Graph client whose requests carry tok. Refreshed
// tokens are written back to the token file.
func NewClient(ctx context.Context, tok *oauth2.Token, cfg *oauth2.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ts := &savingTokenSource{ts: cfg.TokenSource(ctx, tok), logger: logger}
	if store, err := defaultTokenStore(); err == nil {
		ts.store = &store
	}
	return &Client{
		httpClient: oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)),
		baseURL:    graphBaseURL,
		logger:     logger,
	}
}

// savingTokenSource persists every token it hands out.
type savingTokenSource struct {
	ts     oauth2.TokenSource
	store  *tokenStore
	logger *slog.Logger
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if s.store == nil {
		return tok, nil
	}
	if err := s.store.save(tok); err != nil {
		s.logger.Warn("could not save refreshed token", "error", err)
	}
	return tok, nil
}

// CalendarEvent represents a Microsoft Graph calendar event.
type CalendarEvent struct {
	ID          string `json:"id"`
	Subject     string `json:"subject"`
	BodyPreview string `json:"bodyPreview"`
	IsAllDay    bool   `json:"isAllDay"`
	IsCancelled bool   `json:"isCancelled"`
	Sensitivity string `json:"sensitivity"` // "normal", "personal", "private", "confidential"
	ShowAs      string `json:"showAs"`      // "free", "tentative", "busy", "oof", "workingElsewhere", "unknown"
	Start       struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	} `json:"start"`
	End struct {
		DateTime string `json:"dateTime"`
		TimeZone string `json:"timeZone"`
	} `json:"end"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

// calendarViewResponse is the Graph API paged response for calendar events.
type calendarViewResponse struct {
	Value    []CalendarEvent `json:"value"`
	NextLink string          `json:"@odata.nextLink"`
}

// graphError is the body Graph returns with non-2xx responses.
type graphError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func apiError(status int, body []byte) error {
	var ge graphError
	if json.Unmarshal(body, &ge) == nil && ge.Error.Code != "" {
		return fmt.Errorf("graph API error %d (%s): %s", status, ge.Error.Code, ge.Error.Message)
	}
	return fmt.Errorf("graph API error %d: %s", status, string(body))
}

// GetCalendarView fetches calendar events in [from, to) using the calendarView
// endpoint, following @odata.nextLink until all pages are read.
// timezone is an IANA timezone name (e.g. "Europe/Berlin"); pass "" for UTC.
func (c *Client) GetCalendarView(ctx context.Context, from, to time.Time, timezone string) ([]CalendarEvent, error) {
	q := url.Values{}
	q.Set("startDateTime", from.UTC().Format(time.RFC3339))
	q.Set("endDateTime", to.UTC().Format(time.RFC3339))
	q.Set("$select", eventFields)
	q.Set("$orderby", "start/dateTime")
	q.Set("$top", "100")
	endpoint := c.baseURL + "/me/calendarView?" + q.Encode()

	var all []CalendarEvent
	for page := 1; endpoint != ""; page++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if timezone != "" {
			req.Header.Set("Prefer", fmt.Sprintf(`outlook.timezone="%s"`, timezone))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("graph API request failed: %w", err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, apiError(resp.StatusCode, body)
		}

		var cv calendarViewResponse
		if err := json.Unmarshal(body, &cv); err != nil {
			return nil, fmt.Errorf("decoding graph response: %w", err)
		}
		c.logger.Debug("calendar view page", "page", page, "events", len(cv.Value))

		all = append(all, cv.Value...)
		endpoint = cv.NextLink
	}
	return all, nil
}
