package widget

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beforeafter/models"
)

func sampleState() models.ElementState {
	return models.ElementState{
		SliderID:   "comp-1",
		SiteID:     "owner-1",
		UserID:     "user-1",
		InstanceID: "inst-1",
		SettingsMirror: models.SettingsMirror{
			BeforeImage:     "b.jpg",
			AfterImage:      "a.jpg",
			BeforeLabelText: "Before",
			AfterLabelText:  "After",
			SliderOffset:    "30",
		},
	}
}

func payloadKeys(t *testing.T, p Payload) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(p)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestDeletePayloadCarriesOnlyActionAndID(t *testing.T) {
	got := payloadKeys(t, BuildPayload(models.ActionDelete, sampleState()))
	assert.Equal(t, map[string]interface{}{"action": "delete", "extensionId": "comp-1"}, got)
}

func TestPublishPayloadFlattensMirror(t *testing.T) {
	got := payloadKeys(t, BuildPayload(models.ActionPublish, sampleState()))
	assert.Equal(t, "publish", got["action"])
	assert.Equal(t, "comp-1", got["extensionId"])
	assert.Equal(t, "owner-1", got["siteId"])
	assert.Equal(t, "inst-1", got["instanceId"])
	assert.Equal(t, "b.jpg", got["beforeImage"])
	assert.Equal(t, "30", got["sliderOffset"])
	assert.NotContains(t, got, "SettingsMirror")
}

func TestClientPostsJSON(t *testing.T) {
	bodies := make(chan []byte, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		b, _ := io.ReadAll(r.Body)
		bodies <- b
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/api/widget", time.Second)
	c.Persist(models.ActionSave, sampleState())
	c.Wait()

	select {
	case b := <-bodies:
		var got map[string]interface{}
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, "save", got["action"])
		assert.Equal(t, "Before", got["beforeLabelText"])
	default:
		t.Fatal("endpoint not called")
	}
}

func TestClientSwallowsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	c.Persist(models.ActionPublish, sampleState())
	c.Wait()

	unreachable := NewClient("http://127.0.0.1:1/widget", 200*time.Millisecond)
	unreachable.Persist(models.ActionPublish, sampleState())
	unreachable.Wait()
}

func TestClientWithoutEndpointSkips(t *testing.T) {
	c := NewClient("", 0)
	c.Persist(models.ActionSave, sampleState())
	c.Wait()
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction("delete")
	require.NoError(t, err)
	assert.Equal(t, models.ActionDelete, a)

	_, err = ParseAction("archive")
	assert.ErrorIs(t, err, ErrUnknownAction)
}
