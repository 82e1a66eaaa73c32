package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNotifier(srv *httptest.Server, chatID string) *TelegramNotifier {
	return &TelegramNotifier{
		chatID: chatID,
		api:    srv.URL + "/botTESTTOKEN",
		client: srv.Client(),
	}
}

func TestSend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTESTTOKEN/sendMessage", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "42", r.PostForm.Get("chat_id"))
		assert.Equal(t, "HTML", r.PostForm.Get("parse_mode"))
		assert.Equal(t, "<b>report</b>", r.PostForm.Get("text"))
		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	assert.NoError(t, testNotifier(srv, "42").Send("<b>report</b>"))
}

func TestSend_APIErrorSurfacesDescription(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":400,"description":"Bad Request: message text is empty"}`)
	}))
	defer srv.Close()

	err := testNotifier(srv, "42").Send("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "message text is empty")

	apiErr, ok := err.(*apiError)
	require.True(t, ok)
	assert.Equal(t, 400, apiErr.Code)
	assert.Equal(t, "sendMessage", apiErr.Method)
}

func TestSendWithRetry_RecoversAfterFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			fmt.Fprint(w, `{"ok":false,"error_code":502,"description":"Bad Gateway"}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"result":{}}`)
	}))
	defer srv.Close()

	err := testNotifier(srv, "42").SendWithRetry(context.Background(), "report", 2)
	assert.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSendWithRetry_ContextCancelledDuringBackoff(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":30}}`)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := testNotifier(srv, "42").SendWithRetry(ctx, "report", 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second, "cancellation must cut the rate-limit wait short")
}

func TestStartPolling_DispatchesOnlyConfiguredChat(t *testing.T) {
	handled := make(chan string, 4)
	replied := make(chan string, 4)

	var served atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/botTESTTOKEN/getUpdates":
			if served.CompareAndSwap(false, true) {
				fmt.Fprint(w, `{"ok":true,"result":[
					{"update_id":7,"message":{"text":"/status","chat":{"id":99}}},
					{"update_id":8,"message":{"text":"/status","chat":{"id":42}}}
				]}`)
				return
			}
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "9", r.PostForm.Get("offset"), "offset advances past handled updates")
			fmt.Fprint(w, `{"ok":true,"result":[]}`)
		case "/botTESTTOKEN/sendMessage":
			require.NoError(t, r.ParseForm())
			replied <- r.PostForm.Get("text")
			fmt.Fprint(w, `{"ok":true,"result":{}}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tn := testNotifier(srv, "42")
	go tn.StartPolling(ctx, func(command string) string {
		handled <- command
		return "status reply"
	})

	select {
	case cmd := <-handled:
		assert.Equal(t, "/status", cmd)
	case <-time.After(3 * time.Second):
		t.Fatal("command was not dispatched")
	}
	select {
	case reply := <-replied:
		assert.Equal(t, "status reply", reply)
	case <-time.After(3 * time.Second):
		t.Fatal("reply was not sent")
	}
	cancel()

	// The update from the unconfigured chat must never reach the handler.
	select {
	case cmd := <-handled:
		t.Fatalf("unexpected extra command dispatch: %s", cmd)
	case <-time.After(100 * time.Millisecond):
	}
}
