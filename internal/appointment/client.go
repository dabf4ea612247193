package appointment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/mindhaven/wellness/internal/httpclient"
)

// Client reads appointments from the external booking service, which
// owns the appointment lifecycle end to end.
type Client struct {
	http    *httpclient.Client
	baseURL string
}

func NewClient(h *httpclient.Client, baseURL string) *Client {
	return &Client{http: h, baseURL: baseURL}
}

type listResponse struct {
	Appointments []Appointment `json:"appointments"`
}

// List fetches the doctor's appointments. Errors bubble up; the HTTP
// surface decides whether to swallow them into an empty list.
func (c *Client) List(ctx context.Context, doctorID string) ([]Appointment, error) {
	u := fmt.Sprintf("%s/api/appointments?doctorId=%s", c.baseURL, url.QueryEscape(doctorID))
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("booking service returned %d", resp.StatusCode)
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return out.Appointments, nil
}
