// Command rsacrypt encrypts a short message to an RSA public key with
// PKCS#1 v1.5 or OAEP padding and writes it as a framed container.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-logr/logr"
	"k8s.io/klog/v2"

	"example.com/rsacrypt/pkg/armor"
	"example.com/rsacrypt/pkg/compress"
	"example.com/rsacrypt/pkg/container"
	"example.com/rsacrypt/pkg/crypto/hash"
	"example.com/rsacrypt/pkg/crypto/pubkey/rsaenc"
	"example.com/rsacrypt/pkg/keyring"
	"example.com/rsacrypt/pkg/util/random"
	"example.com/rsacrypt/pkg/util/securemem"
)

const usage = `usage: rsacrypt [-v N] <command> [flags] [args]

commands:
  encrypt   encrypt a message to a public key
  keyinfo   show details of a public key file
  keyring   manage the key ring (add|revoke|list|verify)
`

// errUsage marks errors caused by bad command-line input.
var errUsage = errors.New("usage error")

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	ctx := klog.NewContext(context.Background(), klog.Background())
	e := env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	err := run(ctx, e, os.Args[1:])
	klog.Flush()
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, errUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, "rsacrypt:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("rsacrypt", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() {
		fmt.Fprint(e.stderr, usage)
		fs.PrintDefaults()
	}
	klog.InitFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	ctx = klog.NewContext(ctx, klog.FromContext(ctx).WithValues("command", cmd))
	switch cmd {
	case "encrypt":
		return encrypt(ctx, e, rest)
	case "keyinfo":
		return keyinfo(ctx, e, rest)
	case "keyring":
		return keyringCmd(ctx, e, rest)
	default:
		fs.Usage()
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func writeOut(e env, outPath string, b []byte) error {
	if outPath == "" {
		_, err := e.stdout.Write(b)
		return err
	}
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// readInput reads the positional file argument, or stdin for none or "-".
func readInput(e env, rest []string) ([]byte, error) {
	if len(rest) > 1 {
		return nil, fmt.Errorf("%w: too many arguments", errUsage)
	}
	if len(rest) == 1 && rest[0] != "-" {
		return os.ReadFile(rest[0])
	}
	return io.ReadAll(e.stdin)
}

func openRing(log logr.Logger, path string) (*keyring.Ring, error) {
	if path == "" {
		p, err := keyring.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	log.V(2).Info("using key ring", "path", path)
	return keyring.Open(path), nil
}

func encrypt(ctx context.Context, e env, args []string) error {
	log := klog.FromContext(ctx)

	fs := flag.NewFlagSet("encrypt", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var keyPath, keyID, ringPath, padding, comp, seedHex, outPath string
	var armorOut bool
	fs.StringVar(&keyPath, "key", "", "recipient public key file (PEM or armored OpenPGP)")
	fs.StringVar(&keyID, "key-id", "", "recipient key ID in the key ring")
	fs.StringVar(&ringPath, "keyring", "", "key ring file (default: $"+keyring.EnvPath+" or user config dir)")
	fs.StringVar(&padding, "padding", "oaep", "padding scheme: oaep|pkcs1")
	fs.StringVar(&comp, "compress", compress.None, "compression: "+strings.Join(compress.Names(), "|")+"|auto")
	fs.BoolVar(&armorOut, "armor", false, "ASCII armor output (default: binary)")
	fs.StringVar(&seedHex, "seed", "", "hex seed for a deterministic random source (testing only)")
	fs.StringVar(&outPath, "out", "", "output file (default: stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if (keyPath == "") == (keyID == "") {
		return fmt.Errorf("%w: exactly one of -key or -key-id is required", errUsage)
	}
	scheme, err := rsaenc.ParseScheme(padding)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	var key *rsaenc.PublicKey
	if keyPath != "" {
		var format rsaenc.KeyFormat
		key, format, err = rsaenc.LoadFile(keyPath)
		if err != nil {
			return err
		}
		log.V(1).Info("loaded key", "path", keyPath, "format", format, "bits", key.BitLen())
	} else {
		ring, err := openRing(log, ringPath)
		if err != nil {
			return err
		}
		key, _, err = ring.Lookup(ctx, keyID)
		if err != nil {
			return err
		}
	}

	raw, err := readInput(e, fs.Args())
	if err != nil {
		return fmt.Errorf("failed to read message: %w", err)
	}
	msg := securemem.New(raw)
	defer msg.Destroy()

	codec, payload, err := compressMessage(comp, msg.Bytes())
	if err != nil {
		return err
	}
	if codec != compress.None {
		defer securemem.Wipe(payload)
	}
	log.V(1).Info("prepared payload", "compression", codec, "messageLen", msg.Size(), "payloadLen", len(payload))

	src := random.Reader()
	if seedHex != "" {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			return fmt.Errorf("%w: -seed: %w", errUsage, err)
		}
		log.Info("using deterministic random source; output is reproducible")
		src = random.NewSeeded(seed)
	}
	p, err := rsaenc.NewPadding(scheme, src)
	if err != nil {
		return err
	}

	ct, err := key.EncryptBlock(payload, p)
	if errors.Is(err, rsaenc.ErrMessageTooLong) {
		return fmt.Errorf("%w: payload is %d octets, %s allows at most %d with a %d-bit key",
			err, len(payload), scheme, key.MaxMessageLen(scheme), key.BitLen())
	}
	if err != nil {
		return err
	}

	fp, err := key.Fingerprint("sha256")
	if err != nil {
		return err
	}
	h := &container.Header{
		Version:     container.Version,
		Created:     time.Now().UTC(),
		Scheme:      string(scheme),
		KeyID:       keyID,
		Fingerprint: fp,
		ModulusBits: key.BitLen(),
		Compression: codec,
	}
	out, err := container.Marshal(h, ct)
	if err != nil {
		return err
	}
	if armorOut {
		out, err = armor.EncodeMessage(out, map[string]string{"Scheme": string(scheme)})
		if err != nil {
			return err
		}
	}
	log.V(1).Info("encrypted", "scheme", scheme, "ciphertextLen", len(ct), "armor", armorOut)
	return writeOut(e, outPath, out)
}

func compressMessage(name string, msg []byte) (string, []byte, error) {
	if name == "auto" {
		return compress.Smallest(msg)
	}
	c, err := compress.Get(name)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", errUsage, err)
	}
	out, err := c.Compress(msg)
	if err != nil {
		return "", nil, err
	}
	return c.Name(), out, nil
}

func keyinfo(ctx context.Context, e env, args []string) error {
	fs := flag.NewFlagSet("keyinfo", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var hashName string
	fs.StringVar(&hashName, "hash", "sha256", "fingerprint hash: "+strings.Join(hash.Names(), "|"))
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: keyinfo takes exactly one key file", errUsage)
	}

	key, format, err := rsaenc.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	fp, err := key.Fingerprint(hashName)
	if err != nil {
		return err
	}
	klog.FromContext(ctx).V(2).Info("inspected key", "path", fs.Arg(0))

	tw := tabwriter.NewWriter(e.stdout, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "format:\t%s\n", format)
	fmt.Fprintf(tw, "bits:\t%d\n", key.BitLen())
	fmt.Fprintf(tw, "octets:\t%d\n", key.NumOctets())
	fmt.Fprintf(tw, "exponent:\t%s\n", key.Exponent())
	fmt.Fprintf(tw, "fingerprint:\t%s:%s\n", hashName, fp)
	for _, s := range []rsaenc.Scheme{rsaenc.SchemePKCS1v15, rsaenc.SchemeOAEP} {
		fmt.Fprintf(tw, "max message (%s):\t%d\n", s, key.MaxMessageLen(s))
	}
	return tw.Flush()
}

func keyringCmd(ctx context.Context, e env, args []string) error {
	log := klog.FromContext(ctx)

	fs := flag.NewFlagSet("keyring", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	var ringPath string
	fs.StringVar(&ringPath, "keyring", "", "key ring file (default: $"+keyring.EnvPath+" or user config dir)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: keyring needs a subcommand: add|revoke|list|verify", errUsage)
	}
	ring, err := openRing(log, ringPath)
	if err != nil {
		return err
	}

	sub, rest := fs.Arg(0), fs.Args()[1:]
	switch sub {
	case "add":
		if len(rest) != 2 {
			return fmt.Errorf("%w: keyring add KEY-ID KEY-FILE", errUsage)
		}
		ent, err := ring.Add(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(e.stdout, "added %s (%d bits, sha256:%s)\n", ent.KeyID, ent.Bits, ent.Fingerprint)
		return nil
	case "revoke":
		if len(rest) != 1 {
			return fmt.Errorf("%w: keyring revoke KEY-ID", errUsage)
		}
		return ring.Revoke(ctx, rest[0])
	case "list":
		entries, err := ring.List(ctx)
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(e.stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY ID\tBITS\tFORMAT\tSTATUS\tFINGERPRINT\tPATH")
		for _, ent := range entries {
			status := "active"
			if ent.Revoked {
				status = "revoked"
			}
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", ent.KeyID, ent.Bits, ent.Format, status, ent.Fingerprint, ent.Path)
		}
		return tw.Flush()
	case "verify":
		if err := ring.Verify(ctx); err != nil {
			return err
		}
		fmt.Fprintln(e.stdout, "ok")
		return nil
	default:
		return fmt.Errorf("%w: unknown keyring subcommand %q", errUsage, sub)
	}
}
