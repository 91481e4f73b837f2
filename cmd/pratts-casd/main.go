// Command pratts-casd serves a filesystem-backed certificate store over gRPC.
package main

import (
	"flag"
	"fmt"
	"net"
	"os"

	"google.golang.org/grpc"

	"github.com/reity/pratts/storage/grpccas"
	"github.com/reity/pratts/storage/localfs"
)

func main() {
	fs := flag.NewFlagSet("pratts-casd", flag.ExitOnError)
	listen := fs.String("listen", "127.0.0.1:7877", "listen address")
	dir := fs.String("dir", "", "certificate store directory (required)")
	_ = fs.Parse(os.Args[1:])

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "pratts-casd: -dir is required")
		os.Exit(2)
	}

	cas, err := localfs.New(*dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer lis.Close()

	s := grpc.NewServer()
	grpccas.RegisterCertStoreServer(s, &grpccas.Server{CAS: cas})

	fmt.Fprintf(os.Stderr, "pratts-casd listening on %s (dir=%s)\n", lis.Addr().String(), *dir)
	if err := s.Serve(lis); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
