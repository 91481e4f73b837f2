// Command pratts generates, verifies, and stores Pratt certificates in the
// PCTF text encoding.
package main

import (
	"crypto/ed25519"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"github.com/ipfs/go-cid"

	"github.com/reity/pratts/pctf"
	"github.com/reity/pratts/pratt"
	"github.com/reity/pratts/storage"
	"github.com/reity/pratts/storage/grpccas"
	"github.com/reity/pratts/storage/localfs"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) == 0 {
		printUsage(errOut)
		return 2
	}

	switch args[0] {
	case "generate":
		return cmdGenerate(args[1:], out, errOut)
	case "verify":
		return cmdVerify(args[1:], out, errOut)
	case "cid":
		return cmdCID(args[1:], out, errOut)
	case "put":
		return cmdPut(args[1:], out, errOut)
	case "get":
		return cmdGet(args[1:], out, errOut)
	case "help", "-h", "--help":
		printUsage(out)
		return 0
	default:
		fmt.Fprintf(errOut, "unknown command: %s\n\n", args[0])
		printUsage(errOut)
		return 2
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "pratts: Pratt certificate CLI")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  pratts generate --candidate <n> --factors <p,q,...> [--sign-seed-hex <64hex>] [--hash sha256|sha512|sha3-256]")
	fmt.Fprintln(w, "  pratts verify <file>")
	fmt.Fprintln(w, "  pratts cid <file>")
	fmt.Fprintln(w, "  pratts put (--dir <path> | --grpc <addr>) <file>")
	fmt.Fprintln(w, "  pratts get (--dir <path> | --grpc <addr>) <cid>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Notes:")
	fmt.Fprintln(w, "  - --factors is the candidate prime pool used to factor every p-1 in the chain")
	fmt.Fprintln(w, "  - --sign-seed-hex must be a 32-byte (64 hex chars) ed25519 seed")
}

func cmdGenerate(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(errOut)
	candidateArg := fs.String("candidate", "", "integer to certify")
	factorsArg := fs.String("factors", "", "comma-separated candidate prime pool")
	seedHex := fs.String("sign-seed-hex", "", "optional ed25519 seed for signing")
	hashAlg := fs.String("hash", "sha256", "digest for signing")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	candidate, ok := new(big.Int).SetString(*candidateArg, 10)
	if !ok || *candidateArg == "" {
		fmt.Fprintln(errOut, "generate: --candidate must be a base-10 integer")
		return 2
	}
	var poolInts []*big.Int
	if *factorsArg != "" {
		for _, f := range strings.Split(*factorsArg, ",") {
			n, ok := new(big.Int).SetString(strings.TrimSpace(f), 10)
			if !ok {
				fmt.Fprintf(errOut, "generate: invalid factor %q\n", f)
				return 2
			}
			poolInts = append(poolInts, n)
		}
	}

	pool, err := pratt.NewPool(poolInts)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	cert, err := pratt.Generate(candidate, pool)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	var doc []byte
	if *seedHex != "" {
		seed, err := hex.DecodeString(*seedHex)
		if err != nil || len(seed) != ed25519.SeedSize {
			fmt.Fprintln(errOut, "generate: --sign-seed-hex must be 64 hex chars")
			return 2
		}
		doc, err = pctf.RenderSigned(cert, pctf.SignOptions{
			HashAlg:    *hashAlg,
			Ed25519Key: ed25519.NewKeyFromSeed(seed),
		})
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
	} else {
		doc, err = pctf.Render(pctf.NewDocument(cert))
		if err != nil {
			fmt.Fprintln(errOut, err)
			return 1
		}
	}
	fmt.Fprintf(out, "%s\n", doc)
	return 0
}

func cmdVerify(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "verify: exactly one file expected")
		return 2
	}
	data, err := readDocument(args[0])
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	canon, err := pctf.Normalize(data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	d, err := pctf.Parse(canon)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	if err := d.Verify(); err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "valid: %s\n", d.CID())
	return 0
}

func cmdCID(args []string, out io.Writer, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "cid: exactly one file expected")
		return 2
	}
	data, err := readDocument(args[0])
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	canon, err := pctf.Normalize(data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	id, err := pctf.CID(canon)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, id)
	return 0
}

func cmdPut(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("put", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := fs.String("dir", "", "local store directory")
	addr := fs.String("grpc", "", "remote store address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "put: exactly one file expected")
		return 2
	}
	data, err := readDocument(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	// Only canonical documents are admitted to storage.
	canon, err := pctf.Normalize(data)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}

	cas, closeFn, code := openStore(*dir, *addr, errOut)
	if cas == nil {
		return code
	}
	defer closeFn()

	id, err := cas.Put(canon)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintln(out, id.String())
	return 0
}

func cmdGet(args []string, out io.Writer, errOut io.Writer) int {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := fs.String("dir", "", "local store directory")
	addr := fs.String("grpc", "", "remote store address")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(errOut, "get: exactly one CID expected")
		return 2
	}
	id, err := cid.Decode(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(errOut, "get: invalid CID")
		return 2
	}

	cas, closeFn, code := openStore(*dir, *addr, errOut)
	if cas == nil {
		return code
	}
	defer closeFn()

	b, err := cas.Get(id)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 1
	}
	fmt.Fprintf(out, "%s\n", b)
	return 0
}

func openStore(dir, addr string, errOut io.Writer) (storage.CAS, func(), int) {
	switch {
	case dir != "" && addr != "":
		fmt.Fprintln(errOut, "--dir and --grpc are mutually exclusive")
		return nil, nil, 2
	case dir != "":
		cas, err := localfs.New(dir)
		if err != nil {
			fmt.Fprintln(errOut, err)
			return nil, nil, 1
		}
		return cas, func() {}, 0
	case addr != "":
		client, err := grpccas.Dial(addr, grpccas.DialOptions{})
		if err != nil {
			fmt.Fprintln(errOut, err)
			return nil, nil, 1
		}
		return client, func() { _ = client.Close() }, 0
	default:
		fmt.Fprintln(errOut, "one of --dir or --grpc is required")
		return nil, nil, 2
	}
}

func readDocument(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}
