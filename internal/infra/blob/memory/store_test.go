package memory

import (
	"context"
	"io"
	"strings"
	"testing"

	"eventcore/internal/blob/core"
)

func TestPutGetDelete(t *testing.T) {
	s := New()
	if s.Driver() != core.DriverMemory {
		t.Fatalf("driver: %v", s.Driver())
	}

	if _, err := s.Put(context.Background(), "a", strings.NewReader("one"), core.PutOptions{ContentType: "image/png"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := s.Put(context.Background(), "a", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatal("duplicate put must fail")
	}

	info, rc, err := s.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(body) != "one" || info.ContentType != "image/png" {
		t.Fatalf("round trip: %q %+v", body, info)
	}

	existed, err := s.Delete(context.Background(), "a")
	if err != nil || !existed {
		t.Fatalf("delete: existed=%v err=%v", existed, err)
	}
	existed, _ = s.Delete(context.Background(), "a")
	if existed {
		t.Fatal("second delete must report absence")
	}
}

func TestListOrdersByKey(t *testing.T) {
	s := New()
	for _, key := range []string{"p/b", "p/a", "q/c"} {
		if _, err := s.Put(context.Background(), key, strings.NewReader("x"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := s.List(context.Background(), "p/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "p/a" || infos[1].Key != "p/b" {
		t.Fatalf("listing: %+v", infos)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	s := New()
	if _, err := s.Put(context.Background(), "a", strings.NewReader("stable"), core.PutOptions{Metadata: map[string]string{"k": "v"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, rc, err := s.Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	info.Metadata["k"] = "mutated"

	again, err := s.Head(context.Background(), "a")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if again.Metadata["k"] != "v" {
		t.Fatal("stored metadata must not alias returned maps")
	}
}

func TestPresignUnsupported(t *testing.T) {
	s := New()
	if _, err := s.PresignURL(context.Background(), "a", core.SignedURLOptions{}); err != core.ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}
