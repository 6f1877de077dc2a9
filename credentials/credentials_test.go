package credentials_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/gantoin/n8n"
	"github.com/gantoin/n8n/credentials"
	"github.com/gantoin/n8n/workflow"
)

// fakeStore is a minimal in-memory credentials.Store.
type fakeStore struct {
	creds map[string]*credentials.Credential // key: type/name
	calls int
}

func (f *fakeStore) SaveCredential(_ context.Context, c *credentials.Credential) error {
	if f.creds == nil {
		f.creds = make(map[string]*credentials.Credential)
	}
	f.creds[c.Type+"/"+c.Name] = c
	return nil
}

func (f *fakeStore) FindCredential(_ context.Context, credType, name string) (*credentials.Credential, error) {
	f.calls++
	c, ok := f.creds[credType+"/"+name]
	if !ok {
		return nil, n8n.ErrCredentialNotFound
	}
	return c, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestParseOverwrites(t *testing.T) {
	o, err := credentials.ParseOverwrites(`{"httpBasicAuth":{"user":"svc"}}`)
	if err != nil {
		t.Fatalf("ParseOverwrites: %v", err)
	}
	if o["httpBasicAuth"]["user"] != "svc" {
		t.Errorf("overwrites = %+v", o)
	}
}

func TestParseOverwrites_Empty(t *testing.T) {
	o, err := credentials.ParseOverwrites("")
	if err != nil {
		t.Fatalf("ParseOverwrites: %v", err)
	}
	if got := o.Apply("any", map[string]any{"k": "v"}); got["k"] != "v" {
		t.Errorf("Apply with empty overwrites mutated data: %+v", got)
	}
}

func TestParseOverwrites_Malformed(t *testing.T) {
	if _, err := credentials.ParseOverwrites(`{`); err == nil {
		t.Error("expected error for malformed overwrite document")
	}
}

func TestOverwrites_ApplyDoesNotMutate(t *testing.T) {
	o := credentials.Overwrites{"httpBasicAuth": {"password": "injected"}}
	original := map[string]any{"user": "alice", "password": "stored"}

	merged := o.Apply("httpBasicAuth", original)

	if merged["password"] != "injected" || merged["user"] != "alice" {
		t.Errorf("merged = %+v", merged)
	}
	if original["password"] != "stored" {
		t.Errorf("original mutated: %+v", original)
	}
}

func TestResolver_Resolve(t *testing.T) {
	store := &fakeStore{}
	_ = store.SaveCredential(context.Background(), &credentials.Credential{
		Name: "prod-api",
		Type: "httpHeaderAuth",
		Data: map[string]any{"name": "X-Api-Key", "value": "stored"},
	})

	overwrites := credentials.Overwrites{"httpHeaderAuth": {"value": "injected"}}
	resolver := credentials.NewResolver(store, overwrites, testLogger())

	nodes := []workflow.Node{
		{Name: "Start", Type: workflow.StartNodeType},
		{Name: "Fetch", Type: "n8n-nodes-base.httpRequest",
			Credentials: map[string]string{"httpHeaderAuth": "prod-api"}},
	}

	snapshot, err := resolver.Resolve(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	data := snapshot["httpHeaderAuth"]["prod-api"]
	if data == nil {
		t.Fatal("credential missing from snapshot")
	}
	if data["value"] != "injected" {
		t.Errorf("overwrite not applied: %+v", data)
	}
	if data["name"] != "X-Api-Key" {
		t.Errorf("stored field lost: %+v", data)
	}
}

func TestResolver_MissingCredentialSkipped(t *testing.T) {
	resolver := credentials.NewResolver(&fakeStore{}, nil, testLogger())

	nodes := []workflow.Node{
		{Name: "Fetch", Credentials: map[string]string{"httpBasicAuth": "gone"}},
	}

	snapshot, err := resolver.Resolve(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(snapshot) != 0 {
		t.Errorf("snapshot = %+v, want empty", snapshot)
	}
}

func TestResolver_StoreFailureSurfaces(t *testing.T) {
	boom := errors.New("connection reset")
	resolver := credentials.NewResolver(failingStore{err: boom}, nil, testLogger())

	nodes := []workflow.Node{
		{Name: "Fetch", Credentials: map[string]string{"httpBasicAuth": "prod"}},
	}

	if _, err := resolver.Resolve(context.Background(), nodes); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
}

type failingStore struct{ err error }

func (f failingStore) SaveCredential(context.Context, *credentials.Credential) error { return f.err }
func (f failingStore) FindCredential(context.Context, string, string) (*credentials.Credential, error) {
	return nil, f.err
}
