package bus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/zahedbri/e107/pkg/ajax"
)

func TestTokenAuth(t *testing.T) {
	token := "test-secret-token"
	logger := zerolog.Nop()

	// Start a NATS server with token auth on a random TCP port.
	srv, err := New(Config{
		StoreDir: t.TempDir(),
		Host:     "127.0.0.1",
		Port:     -1, // random port
		Token:    token,
	}, logger)
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Shutdown()

	url := srv.ClientURL()

	// Connection WITHOUT token should fail.
	nc, err := nats.Connect(url)
	if err == nil {
		nc.Close()
		t.Fatal("expected connection without token to fail")
	}

	// Connection with CORRECT token should succeed.
	nc, err = nats.Connect(url, nats.Token(token))
	if err != nil {
		t.Fatalf("expected connection with correct token to succeed: %v", err)
	}
	nc.Close()
}

func TestInProcessOnly(t *testing.T) {
	// Host empty: no TCP listener, in-process connection only.
	srv, err := New(Config{StoreDir: t.TempDir()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Shutdown()

	if err := srv.Conn().Publish("e107.test", []byte("x")); err != nil {
		t.Fatalf("publish on in-process conn: %v", err)
	}
}

func TestPublisherDeliversSignedBatch(t *testing.T) {
	srv, err := New(Config{StoreDir: t.TempDir()}, zerolog.Nop())
	if err != nil {
		t.Fatalf("start server: %v", err)
	}
	defer srv.Shutdown()

	got := make(chan *nats.Msg, 1)
	sub, err := srv.Conn().Subscribe(ajax.SubjectBatches, func(msg *nats.Msg) {
		got <- msg
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Unsubscribe()

	pub := NewPublisher(srv.Conn(), "hush", zerolog.Nop())
	sent, err := pub.Publish("save", "test", []ajax.Command{ajax.Alert("ok")})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-got:
		if msg.Subject != "e107.ajax.batch.save" {
			t.Errorf("subject = %q", msg.Subject)
		}
		var b ajax.Batch
		if err := json.Unmarshal(msg.Data, &b); err != nil {
			t.Fatal(err)
		}
		if b.ID != sent.ID {
			t.Errorf("batch ID = %q, want %q", b.ID, sent.ID)
		}
		if !ajax.VerifyBatch(&b, "hush") {
			t.Error("batch signature did not verify")
		}
		if string(b.Commands) != `[{"command":"alert","text":"ok"}]` {
			t.Errorf("commands = %s", b.Commands)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch not delivered")
	}
}
