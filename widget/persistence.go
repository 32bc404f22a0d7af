package widget

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/valyala/fasthttp"

	"beforeafter/models"
	"beforeafter/utils"
)

// Payload is the JSON body sent to the persistence endpoint. Settings is
// nil for delete so that only the action and extension id go out.
type Payload struct {
	Action      models.Action `json:"action"`
	ExtensionID string        `json:"extensionId"`
	SiteID      string        `json:"siteId,omitempty"`
	UserID      string        `json:"userId,omitempty"`
	InstanceID  string        `json:"instanceId,omitempty"`
	*models.SettingsMirror
}

// BuildPayload builds the request body from the applied element mirror
func BuildPayload(action models.Action, state models.ElementState) Payload {
	p := Payload{Action: action, ExtensionID: state.SliderID}
	if action == models.ActionDelete {
		return p
	}
	p.SiteID = state.SiteID
	p.UserID = state.UserID
	p.InstanceID = state.InstanceID
	mirror := state.SettingsMirror
	p.SettingsMirror = &mirror
	return p
}

// Client posts widget state to the backend without waiting for the result
type Client struct {
	endpoint string
	timeout  time.Duration
	http     *fasthttp.Client
	wg       sync.WaitGroup
}

// NewClient creates a persistence client. An empty endpoint disables sending.
func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		timeout:  timeout,
		http: &fasthttp.Client{
			Name:         "beforeafter",
			ReadTimeout:  timeout,
			WriteTimeout: timeout,
		},
	}
}

// Persist issues one asynchronous POST. Failures are logged, never returned.
func (c *Client) Persist(action models.Action, state models.ElementState) {
	log := utils.Log.WithFields(map[string]interface{}{
		"widget": state.SliderID,
		"action": string(action),
	})
	if c.endpoint == "" {
		log.Debug("No persistence endpoint configured, skipping")
		return
	}

	body, err := json.Marshal(BuildPayload(action, state))
	if err != nil {
		log.Error("Failed to encode payload: %v", err)
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.send(body, log)
	}()
}

func (c *Client) send(body []byte, log *utils.Logger) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.endpoint)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	if err := c.http.DoTimeout(req, resp, c.timeout); err != nil {
		log.Warn("Persistence request failed: %v", err)
		return
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		log.Warn("Persistence endpoint answered %d", code)
		return
	}
	log.Debug("Persisted %d bytes", len(body))
}

// Wait blocks until in-flight requests finish
func (c *Client) Wait() {
	c.wg.Wait()
}
