package grpccas

import (
	"context"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"

	"github.com/reity/pratts/cidutil"
	"github.com/reity/pratts/storage"
	"github.com/reity/pratts/storage/localfs"
	"github.com/reity/pratts/storage/testkit"
)

func newBufconnClient(t *testing.T, backend storage.CAS) *Client {
	t.Helper()

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterCertStoreServer(srv, &Server{CAS: backend})

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	cc, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(dialer),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("DialContext: %v", err)
	}
	t.Cleanup(func() { _ = cc.Close() })

	return &Client{cc: cc, client: NewCertStoreClient(cc), Timeout: 2 * time.Second}
}

func TestCertStore_LocalFS_RoundTrip(t *testing.T) {
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	client := newBufconnClient(t, cas)

	payload := []byte("hello certstore")
	id, err := client.Put(payload)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !id.Defined() {
		t.Fatalf("expected defined CID")
	}
	if !client.Has(id) {
		t.Fatalf("Has: expected true")
	}
	got, err := client.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("payload mismatch")
	}
}

func TestCertStore_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return newBufconnClient(t, storage.NewMemory())
	})
}

func TestCertStore_ErrorMapping(t *testing.T) {
	client := newBufconnClient(t, storage.NewMemory())

	missing, err := cidutil.CIDv1RawSHA256CID([]byte("never stored"))
	if err != nil {
		t.Fatalf("CID: %v", err)
	}
	if _, err := client.Get(missing); !storage.IsNotFound(err) {
		t.Fatalf("Get missing: got %v, want ErrNotFound", err)
	}
	if client.Has(missing) {
		t.Fatalf("Has = true for missing object")
	}
}
