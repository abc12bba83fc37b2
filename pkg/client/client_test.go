package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hostdesk/hostdesk/pkg/domain"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestQueryEncode(t *testing.T) {
	var nilStr *string
	empty := ""
	tests := []struct {
		name string
		q    Query
		want string
	}{
		{"nil map", nil, ""},
		{"nil value dropped", Query{"a": nil, "b": "x"}, "b=x"},
		{"empty string dropped", Query{"a": "", "b": "x"}, "b=x"},
		{"nil pointer dropped", Query{"a": nilStr}, ""},
		{"pointer to empty dropped", Query{"a": &empty}, ""},
		{"slice repeats key", Query{"status": []string{"new", "replied"}}, "status=new&status=replied"},
		{"empty slice dropped", Query{"status": []string{}}, ""},
		{"ints and bools", Query{"limit": 50, "unread": true}, "limit=50&unread=true"},
		{"zero int kept", Query{"offset": 0}, "offset=0"},
		{"int slice", Query{"id": []int64{1, 2}}, "id=1&id=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Encode(); got != tt.want {
				t.Errorf("Encode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		base string
		path string
		want string
	}{
		{"http://api.test", "/messages", "http://api.test/messages"},
		{"http://api.test/", "/messages", "http://api.test/messages"},
		{"http://api.test/", "messages", "http://api.test/messages"},
		{"http://api.test", "messages", "http://api.test/messages"},
		{"http://api.test/v1//", "//messages", "http://api.test/v1/messages"},
	}
	for _, tt := range tests {
		t.Run(tt.base+"+"+tt.path, func(t *testing.T) {
			c := New(tt.base, "")
			if got := c.buildURL(tt.path, nil); got != tt.want {
				t.Errorf("buildURL(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestDoRequest_Headers(t *testing.T) {
	var got http.Header
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	})

	c := New(srv.URL, "tok", WithHeader("X-Client", "console"))

	if err := c.Do(context.Background(), http.MethodGet, "/messages", nil, nil, nil, nil); err != nil {
		t.Fatalf("GET error: %v", err)
	}
	if got.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q, want application/json", got.Get("Accept"))
	}
	if got.Get("Content-Type") != "" {
		t.Errorf("Content-Type = %q on bodyless request, want empty", got.Get("Content-Type"))
	}
	if got.Get("Authorization") != "Bearer tok" {
		t.Errorf("Authorization = %q, want %q", got.Get("Authorization"), "Bearer tok")
	}
	if got.Get("X-Client") != "console" {
		t.Errorf("X-Client = %q, want console", got.Get("X-Client"))
	}

	hdr := http.Header{}
	hdr.Set("Accept", "application/vnd.hostdesk+json")
	hdr.Set("X-Client", "cli")
	if err := c.Do(context.Background(), http.MethodPost, "/push/test", nil, map[string]int{"n": 1}, nil, hdr); err != nil {
		t.Fatalf("POST error: %v", err)
	}
	if got.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", got.Get("Content-Type"))
	}
	if got.Get("Accept") != "application/vnd.hostdesk+json" {
		t.Errorf("Accept = %q, want caller override", got.Get("Accept"))
	}
	if vals := got.Values("X-Client"); len(vals) != 1 || vals[0] != "cli" {
		t.Errorf("X-Client = %v, want [cli]", vals)
	}
}

func TestDoRequest_NoContent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	c := New(srv.URL, "")
	var out domain.Message
	if err := c.Do(context.Background(), http.MethodDelete, "/messages/1", nil, nil, &out, nil); err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if out.ID != 0 {
		t.Errorf("out.ID = %d, want untouched zero value", out.ID)
	}
}

func TestHTTPError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"detail": "room already taken"}) //nolint:errcheck
	})

	c := New(srv.URL, "tok")
	_, err := c.AssignRoom(context.Background(), 7, domain.AssignRoomRequest{RoomNumber: "101"})
	if err == nil {
		t.Fatal("expected error for 422 response")
	}
	if got := err.Error(); !strings.Contains(got, "422") {
		t.Errorf("error = %q, want it to contain '422'", got)
	}
	if got := err.Error(); !strings.Contains(got, "room already taken") {
		t.Errorf("error = %q, want it to contain the detail", got)
	}
	if !IsStatus(err, http.StatusUnprocessableEntity) {
		t.Error("IsStatus(err, 422) = false, want true")
	}

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("error %T is not *HTTPError", err)
	}
	if httpErr.Status != "Unprocessable Entity" {
		t.Errorf("Status = %q, want %q", httpErr.Status, "Unprocessable Entity")
	}
}

func TestHTTPError_PlainBody(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})

	c := New(srv.URL, "")
	_, err := c.ListMessages(context.Background(), MessageFilter{})
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 502") || !strings.Contains(got, "upstream exploded") {
		t.Errorf("error = %q, want status and body", got)
	}
}

type failingBody struct{}

func (failingBody) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingBody) Close() error             { return nil }

func TestHTTPError_UnreadableBody(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusServiceUnavailable,
		Status:     "503 Service Unavailable",
		Body:       failingBody{},
	}
	err := newHTTPError(resp)
	if err.Body != "" {
		t.Errorf("Body = %q, want empty", err.Body)
	}
	if got := err.Error(); got != "HTTP 503 Service Unavailable" {
		t.Errorf("Error() = %q, want %q", got, "HTTP 503 Service Unavailable")
	}
}

func TestDecodeError_Validation(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		// id is required; 0 fails validation.
		io.WriteString(w, `[{"id": 0, "body": "hi"}]`) //nolint:errcheck
	})

	c := New(srv.URL, "")
	_, err := c.ListMessages(context.Background(), MessageFilter{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error %T is not *DecodeError: %v", err, err)
	}
	if decErr.Path != "/messages" {
		t.Errorf("Path = %q, want /messages", decErr.Path)
	}
}

func TestDecodeError_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, `{"public_key": `) //nolint:errcheck
	})

	c := New(srv.URL, "")
	_, err := c.VAPIDPublicKey(context.Background())
	var decErr *DecodeError
	if !errors.As(err, &decErr) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
}

func TestFetchInbox(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query()["property_code"]; len(got) != 2 {
			t.Errorf("property_code = %v, want two values", got)
		}
		json.NewEncoder(w).Encode([]domain.Message{ //nolint:errcheck
			{ID: 1, GuestName: "Ana", Body: "What time is check-in?"},
			{ID: 2, GuestName: "Ben", Body: "Is parking available?"},
		})
	})

	c := New(srv.URL, "tok")
	inbox, err := c.FetchInbox(context.Background(), MessageFilter{PropertyCodes: []string{"SEA1", "SEA2"}})
	if err != nil {
		t.Fatalf("FetchInbox() error: %v", err)
	}
	if len(inbox) != 2 {
		t.Fatalf("got %d items, want 2", len(inbox))
	}
	for i, item := range inbox {
		if item.AutoReply != nil {
			t.Errorf("inbox[%d].AutoReply = %+v, want nil", i, item.AutoReply)
		}
	}
	if inbox[1].GuestName != "Ben" {
		t.Errorf("inbox[1].GuestName = %q, want %q", inbox[1].GuestName, "Ben")
	}

	data, err := json.Marshal(inbox[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"auto_reply":null`) {
		t.Errorf("marshalled inbox item = %s, want auto_reply:null", data)
	}
}

func TestListReservations_Query(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if got := q["status"]; len(got) != 2 || got[0] != "confirmed" || got[1] != "checked_in" {
			t.Errorf("status = %v, want [confirmed checked_in]", got)
		}
		if q.Get("unassigned") != "true" {
			t.Errorf("unassigned = %q, want true", q.Get("unassigned"))
		}
		if q.Has("group_code") {
			t.Error("empty group_code should be omitted")
		}
		json.NewEncoder(w).Encode([]domain.Reservation{ //nolint:errcheck
			{ID: 9, PropertyCode: "SEA1", CheckIn: "2026-10-20", CheckOut: "2026-10-23"},
		})
	})

	c := New(srv.URL, "")
	res, err := c.ListReservations(context.Background(), ReservationFilter{
		Statuses:       []string{"confirmed", "checked_in"},
		UnassignedOnly: true,
	})
	if err != nil {
		t.Fatalf("ListReservations() error: %v", err)
	}
	if len(res) != 1 || res[0].Assigned() {
		t.Errorf("got %+v, want one unassigned reservation", res)
	}
}

func TestAssignRoom(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reservations/42/assign-room" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
			http.NotFound(w, r)
			return
		}
		var req domain.AssignRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		room := req.RoomNumber
		json.NewEncoder(w).Encode(domain.Reservation{ //nolint:errcheck
			ID:           42,
			PropertyCode: "SEA1",
			RoomNumber:   &room,
			CheckIn:      "2026-10-20",
			CheckOut:     "2026-10-21",
		})
	})

	c := New(srv.URL, "tok")
	r, err := c.AssignRoom(context.Background(), 42, domain.AssignRoomRequest{RoomNumber: "204"})
	if err != nil {
		t.Fatalf("AssignRoom() error: %v", err)
	}
	if !r.Assigned() || *r.RoomNumber != "204" {
		t.Errorf("RoomNumber = %v, want 204", r.RoomNumber)
	}
}

func TestLoadFilterOptions(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/properties":
			json.NewEncoder(w).Encode([]domain.Property{{PropertyCode: "SEA1"}, {PropertyCode: "SEA2"}}) //nolint:errcheck
		case "/property-groups":
			json.NewEncoder(w).Encode([]domain.PropertyGroup{{GroupCode: "seattle"}}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	})

	c := New(srv.URL, "")
	opts, err := c.LoadFilterOptions(context.Background())
	if err != nil {
		t.Fatalf("LoadFilterOptions() error: %v", err)
	}
	if len(opts.Properties) != 2 || len(opts.Groups) != 1 {
		t.Errorf("got %d properties / %d groups, want 2 / 1", len(opts.Properties), len(opts.Groups))
	}
}

func TestLoadFilterOptions_OneBranchFails(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/property-groups" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode([]domain.Property{{PropertyCode: "SEA1"}}) //nolint:errcheck
	})

	c := New(srv.URL, "")
	opts, err := c.LoadFilterOptions(context.Background())
	if err == nil {
		t.Fatal("expected error when one branch fails")
	}
	if opts != nil {
		t.Errorf("opts = %+v, want nil on failure", opts)
	}
	if !IsStatus(err, http.StatusInternalServerError) {
		t.Errorf("error = %v, want wrapped HTTP 500", err)
	}
}

func TestPushEndpoints(t *testing.T) {
	var subscribed domain.PushSubscriptionRequest
	var unsubscribed map[string]string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/push/vapid-public-key":
			json.NewEncoder(w).Encode(domain.VAPIDKey{PublicKey: "BBBB"}) //nolint:errcheck
		case "/push/subscribe":
			json.NewDecoder(r.Body).Decode(&subscribed) //nolint:errcheck
			w.WriteHeader(http.StatusCreated)
		case "/push/unsubscribe":
			json.NewDecoder(r.Body).Decode(&unsubscribed) //nolint:errcheck
			w.WriteHeader(http.StatusNoContent)
		case "/push/test":
			json.NewEncoder(w).Encode(domain.PushTestResult{Sent: 2}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	})

	c := New(srv.URL, "")
	ctx := context.Background()

	key, err := c.VAPIDPublicKey(ctx)
	if err != nil || key != "BBBB" {
		t.Fatalf("VAPIDPublicKey() = %q, %v; want BBBB", key, err)
	}
	req := domain.PushSubscriptionRequest{
		Endpoint: "https://relay.test/abc",
		Keys:     domain.PushKeys{P256dh: "pk", Auth: "au"},
	}
	if err := c.SubscribePush(ctx, req); err != nil {
		t.Fatalf("SubscribePush() error: %v", err)
	}
	if subscribed != req {
		t.Errorf("server got %+v, want %+v", subscribed, req)
	}
	if err := c.UnsubscribePush(ctx, req.Endpoint); err != nil {
		t.Fatalf("UnsubscribePush() error: %v", err)
	}
	if unsubscribed["endpoint"] != req.Endpoint {
		t.Errorf("unsubscribe endpoint = %q, want %q", unsubscribed["endpoint"], req.Endpoint)
	}
	res, err := c.SendTestPush(ctx)
	if err != nil || res.Sent != 2 {
		t.Errorf("SendTestPush() = %+v, %v; want Sent=2", res, err)
	}
}

func TestDoRequest_CancelledContext(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(2 * time.Second)
		w.WriteHeader(http.StatusNoContent)
	})

	c := New(srv.URL, "tok")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.ListNotifications(ctx, NotificationFilter{}); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
