package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/itreb/portal/internal/domain"
)

const defaultTimeout = 10 * time.Second

// Client is a small typed wrapper around the portal's REST API. Public
// listings are cached with their ETags so repeat fetches revalidate instead
// of re-downloading.
type Client struct {
	client    *http.Client
	cache     *cache.Cache
	baseURL   string
	userAgent string
	token     string
}

func New(baseURL string) *Client {
	httpClient := &http.Client{
		Timeout: defaultTimeout,
	}

	c := &Client{
		client:    httpClient,
		cache:     cache.New(10*time.Minute, 15*time.Minute),
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		userAgent: "portal-client/1.0",
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", c.userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return http.DefaultTransport.RoundTrip(req)
}

// SetToken attaches a session token to all following requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

type cachedListing struct {
	etag string
	body []byte
}

func (c *Client) getListing(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	cached, hasCached := c.cache.Get(path)
	if hasCached {
		req.Header.Set("If-None-Match", cached.(cachedListing).etag)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotModified && hasCached {
		return json.Unmarshal(cached.(cachedListing).body, out)
	}
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if etag := res.Header.Get("ETag"); etag != "" {
		c.cache.Set(path, cachedListing{etag: etag, body: body}, cache.DefaultExpiration)
	}

	return json.Unmarshal(body, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(res.Body)
		return fmt.Errorf("POST %s: status %d: %s", path, res.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := c.getListing(ctx, "/api/v1/events", &events)
	return events, err
}

func (c *Client) UpcomingEvents(ctx context.Context) ([]domain.Event, error) {
	var events []domain.Event
	err := c.getJSON(ctx, "/api/v1/events/upcoming", &events)
	return events, err
}

func (c *Client) ListOpportunities(ctx context.Context) ([]domain.Opportunity, error) {
	var opportunities []domain.Opportunity
	err := c.getListing(ctx, "/api/v1/opportunities", &opportunities)
	return opportunities, err
}

func (c *Client) GetOpportunity(ctx context.Context, id string) (domain.Opportunity, error) {
	var opportunity domain.Opportunity
	err := c.getJSON(ctx, "/api/v1/opportunities/"+id, &opportunity)
	return opportunity, err
}

// ApplicationForm is the multipart payload of one public submission.
type ApplicationForm struct {
	OpportunityID          string
	FirstName              string
	LastName               string
	Email                  string
	ContactNumber          string
	Age                    string
	Portfolio              string
	SecularQualification   string
	ReligiousQualification string
	Skills                 string
	ResumeName             string
	Resume                 io.Reader
}

func (c *Client) SubmitApplication(ctx context.Context, form ApplicationForm) (domain.Application, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"opportunity_id":          form.OpportunityID,
		"first_name":              form.FirstName,
		"last_name":               form.LastName,
		"email":                   form.Email,
		"contact_number":          form.ContactNumber,
		"age":                     form.Age,
		"portfolio":               form.Portfolio,
		"secular_qualification":   form.SecularQualification,
		"religious_qualification": form.ReligiousQualification,
		"skills":                  form.Skills,
	}
	for key, value := range fields {
		if value == "" {
			continue
		}
		err := writer.WriteField(key, value)
		if err != nil {
			return domain.Application{}, err
		}
	}

	if form.Resume != nil {
		part, err := writer.CreateFormFile("resume", form.ResumeName)
		if err != nil {
			return domain.Application{}, err
		}
		_, err = io.Copy(part, form.Resume)
		if err != nil {
			return domain.Application{}, err
		}
	}

	err := writer.Close()
	if err != nil {
		return domain.Application{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/applications", &buf)
	if err != nil {
		return domain.Application{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.client.Do(req)
	if err != nil {
		return domain.Application{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(res.Body)
		return domain.Application{}, fmt.Errorf("submit application: status %d: %s", res.StatusCode, string(body))
	}

	var created domain.Application
	err = json.NewDecoder(res.Body).Decode(&created)
	return created, err
}

// Session is the payload of a successful signin or signup.
type Session struct {
	Token   string         `json:"token"`
	Profile domain.Profile `json:"profile"`
}

// Signin authenticates and keeps the session token for following requests.
func (c *Client) Signin(ctx context.Context, email, password string) (Session, error) {
	var session Session
	err := c.postJSON(ctx, "/api/v1/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	}, &session)
	if err != nil {
		return Session{}, err
	}
	c.token = session.Token
	return session, nil
}

func (c *Client) Signup(ctx context.Context, email, fullName, password string) (Session, error) {
	var session Session
	err := c.postJSON(ctx, "/api/v1/auth/signup", map[string]string{
		"email":     email,
		"full_name": fullName,
		"password":  password,
	}, &session)
	if err != nil {
		return Session{}, err
	}
	c.token = session.Token
	return session, nil
}

// ListApplications returns the signed-in board member's review queue.
func (c *Client) ListApplications(ctx context.Context) ([]domain.Application, error) {
	var applications []domain.Application
	err := c.getJSON(ctx, "/api/v1/applications", &applications)
	return applications, err
}
