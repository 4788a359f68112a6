// Package main provides the rsa-cli command line interface for textbook RSA
// key generation, encryption and decryption.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"sync"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	rsacore "github.com/BackendStack21/rsa-core-go"
	"github.com/BackendStack21/rsa-core-go/cipher"
	"github.com/BackendStack21/rsa-core-go/core"
	"github.com/BackendStack21/rsa-core-go/keygen"
	"github.com/BackendStack21/rsa-core-go/logging"
	"github.com/BackendStack21/rsa-core-go/utils"
)

const (
	version = "1.0.0"
	appName = "rsa-cli"
)

func keyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "key",
		Aliases:  []string{"k"},
		Usage:    "Path to the key file",
		EnvVars:  []string{"RSA_CLI_KEY"},
		Required: true,
	}
}

func outputFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output path (stdout when empty)",
	}
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Log debug events to stderr",
		EnvVars: []string{"RSA_CLI_VERBOSE"},
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:        appName,
		Usage:       "Textbook RSA key generation and encryption",
		HideVersion: true,
		Writer:      stdout,
		ErrWriter:   stderr,
		Commands: []*cli.Command{
			{
				Name:  "keygen",
				Usage: "Generate a key pair",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "bits",
						Aliases: []string{"b"},
						Usage:   "Modulus size in bits",
						Value:   2048,
						EnvVars: []string{"RSA_CLI_BITS"},
					},
					&cli.StringFlag{
						Name:    "level",
						Aliases: []string{"l"},
						Usage:   "Named parameter set (2048, 3072, 4096); overrides --bits",
						EnvVars: []string{"RSA_CLI_LEVEL"},
					},
					&cli.StringFlag{
						Name:    "exponent",
						Aliases: []string{"e"},
						Usage:   "Public exponent in decimal (default 65537)",
					},
					&cli.BoolFlag{
						Name:  "retry-exponent",
						Usage: "Regenerate primes instead of failing when the exponent is not coprime",
					},
					&cli.StringFlag{
						Name:    "totient",
						Usage:   "Totient used to derive d: carmichael or euler",
						Value:   "carmichael",
						EnvVars: []string{"RSA_CLI_TOTIENT"},
					},
					&cli.StringFlag{
						Name:  "seed",
						Usage: "Hex seed of at least 32 bytes for deterministic generation, or \"random\" to draw and print a fresh one",
					},
					outputFlag(),
					&cli.StringFlag{
						Name:  "public-output",
						Usage: "Also write the public key to this path",
					},
					verboseFlag(),
					&cli.BoolFlag{
						Name:  "timing",
						Usage: "Report generation time on stderr",
					},
				},
				Action: keygenAction,
			},
			{
				Name:  "encrypt",
				Usage: "Encrypt a message with a public key",
				Flags: []cli.Flag{
					keyFlag(),
					&cli.StringFlag{
						Name:    "message",
						Aliases: []string{"m"},
						Usage:   "Message text, encoded big-endian as one block",
					},
					&cli.StringFlag{
						Name:  "integer",
						Usage: "Message as a decimal integer in [0, n)",
					},
					outputFlag(),
				},
				Action: encryptAction,
			},
			{
				Name:  "decrypt",
				Usage: "Decrypt a ciphertext with a key pair",
				Flags: []cli.Flag{
					keyFlag(),
					&cli.StringFlag{
						Name:     "ciphertext",
						Aliases:  []string{"c"},
						Usage:    "Path to an encrypted export",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "integer",
						Usage: "Print the plaintext as a decimal integer",
					},
				},
				Action: decryptAction,
			},
			{
				Name:   "validate",
				Usage:  "Check the key pair invariants",
				Flags:  []cli.Flag{keyFlag()},
				Action: validateAction,
			},
			{
				Name:  "benchmark",
				Usage: "Run performance benchmarks",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "bits",
						Aliases: []string{"b"},
						Value:   2048,
						Usage:   "Modulus size in bits",
					},
					&cli.IntFlag{
						Name:    "iterations",
						Aliases: []string{"n"},
						Value:   10,
						Usage:   "Number of key generations",
					},
					&cli.IntFlag{
						Name:    "workers",
						Aliases: []string{"w"},
						Value:   1,
						Usage:   "Key generations run in parallel",
					},
				},
				Action: benchmarkAction,
			},
			{
				Name:  "version",
				Usage: "Show version information",
				Action: func(cCtx *cli.Context) error {
					fmt.Fprintf(cCtx.App.Writer, "%s version %s\n", appName, version)
					fmt.Fprintf(cCtx.App.Writer, "rsa-core library version %s\n", rsacore.Version)
					return nil
				},
			},
		},
	}
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(cCtx *cli.Context) logging.Logger {
	level := slog.LevelWarn
	if cCtx.Bool("verbose") {
		level = slog.LevelDebug
	}
	return logging.NewText(cCtx.App.ErrWriter, level)
}

func keygenParams(cCtx *cli.Context) (rsacore.Params, error) {
	params := core.ParamsForBits(cCtx.Int("bits"))
	if s := cCtx.String("level"); s != "" {
		level, err := core.ParseLevel(s)
		if err != nil {
			return rsacore.Params{}, err
		}
		if params, err = core.GetParams(level); err != nil {
			return rsacore.Params{}, err
		}
	}

	mode, err := rsacore.ParseTotientMode(cCtx.String("totient"))
	if err != nil {
		return rsacore.Params{}, err
	}
	params.Totient = mode
	return params, core.ValidateParams(params)
}

func keygenAction(cCtx *cli.Context) error {
	params, err := keygenParams(cCtx)
	if err != nil {
		return err
	}

	opts := keygen.Options{
		RetryCustomExponent: cCtx.Bool("retry-exponent"),
		Logger:              newLogger(cCtx),
	}
	if s := cCtx.String("exponent"); s != "" {
		e, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return fmt.Errorf("invalid exponent %q", s)
		}
		opts.PublicExponent = e
	}
	if s := cCtx.String("seed"); s != "" {
		seed, err := readSeed(cCtx, s)
		if err != nil {
			return err
		}
		if err := utils.ValidateSeedEntropy(seed); err != nil {
			return err
		}
		opts.Rand = utils.NewShakeReader(keygen.DomainSeed, seed)
	}

	start := time.Now()
	kp, err := keygen.Generate(params, opts)
	elapsed := time.Since(start)
	if err != nil {
		return fmt.Errorf("key generation failed: %w", err)
	}

	if cCtx.Bool("timing") {
		fmt.Fprintf(cCtx.App.ErrWriter, "Key generation took: %v\n", elapsed)
	}

	createdAt := time.Now().UTC().Format(time.RFC3339)
	output, err := json.MarshalIndent(exportKeyPair(kp, createdAt), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal key pair: %w", err)
	}
	if err := writeOutput(cCtx.App.Writer, output, cCtx.String("output")); err != nil {
		return err
	}

	if path := cCtx.String("public-output"); path != "" {
		pub, err := json.MarshalIndent(exportPublicKey(kp, createdAt), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal public key: %w", err)
		}
		if err := writeOutput(cCtx.App.Writer, pub, path); err != nil {
			return err
		}
	}

	if cCtx.Bool("verbose") {
		fmt.Fprintf(cCtx.App.ErrWriter, "Generated %s\n", kp)
	}
	return nil
}

// readSeed decodes a hex seed. "random" draws 32 fresh bytes and reports
// them on stderr so the key pair can be regenerated later.
func readSeed(cCtx *cli.Context, s string) ([]byte, error) {
	if s == "random" {
		seed, err := utils.SecureRandomBytes(utils.MinSeedLength)
		if err != nil {
			return nil, fmt.Errorf("failed to draw seed: %w", err)
		}
		fmt.Fprintf(cCtx.App.ErrWriter, "Seed: %s\n", hex.EncodeToString(seed))
		return seed, nil
	}
	seed, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}
	return seed, nil
}

func encryptAction(cCtx *cli.Context) error {
	export, err := loadExport(cCtx.String("key"))
	if err != nil {
		return err
	}
	pub, err := export.publicKey()
	if err != nil {
		return err
	}

	var ciphertext []byte
	switch {
	case cCtx.IsSet("integer"):
		m, ok := new(big.Int).SetString(cCtx.String("integer"), 10)
		if !ok {
			return fmt.Errorf("invalid integer message %q", cCtx.String("integer"))
		}
		c, err := cipher.Encrypt(pub, m)
		if err != nil {
			return err
		}
		ciphertext = c.FillBytes(make([]byte, pub.Size()))
	case cCtx.IsSet("message"):
		if ciphertext, err = cipher.EncryptBytes(pub, []byte(cCtx.String("message"))); err != nil {
			return err
		}
	default:
		return fmt.Errorf("one of --message or --integer is required")
	}

	output, err := json.MarshalIndent(EncryptedExport{
		Fingerprint: export.Fingerprint,
		Ciphertext:  hex.EncodeToString(ciphertext),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ciphertext: %w", err)
	}
	return writeOutput(cCtx.App.Writer, output, cCtx.String("output"))
}

func decryptAction(cCtx *cli.Context) error {
	export, err := loadExport(cCtx.String("key"))
	if err != nil {
		return err
	}
	kp, err := export.keyPair()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(cCtx.String("ciphertext"))
	if err != nil {
		return fmt.Errorf("failed to read ciphertext: %w", err)
	}
	var enc EncryptedExport
	if err := json.Unmarshal(data, &enc); err != nil {
		return fmt.Errorf("failed to parse ciphertext: %w", err)
	}
	if enc.Fingerprint != "" && !sameFingerprint(enc.Fingerprint, export.Fingerprint) {
		return fmt.Errorf("ciphertext was produced for a different key")
	}
	ct, err := hex.DecodeString(enc.Ciphertext)
	if err != nil {
		return fmt.Errorf("invalid ciphertext encoding: %w", err)
	}

	plaintext, err := cipher.DecryptBytes(kp.PrivateKey(), ct)
	if err != nil {
		return err
	}
	if cCtx.Bool("integer") {
		fmt.Fprintln(cCtx.App.Writer, new(big.Int).SetBytes(plaintext).String())
		return nil
	}
	fmt.Fprintln(cCtx.App.Writer, string(plaintext))
	return nil
}

func validateAction(cCtx *cli.Context) error {
	export, err := loadExport(cCtx.String("key"))
	if err != nil {
		return err
	}
	kp, err := export.keyPair()
	if err != nil {
		return err
	}
	if err := keygen.Validate(kp); err != nil {
		return err
	}
	fmt.Fprintf(cCtx.App.Writer, "valid: %s\n", kp)
	return nil
}

func benchmarkAction(cCtx *cli.Context) error {
	bits := cCtx.Int("bits")
	iterations := cCtx.Int("iterations")
	if iterations < 1 {
		iterations = 1
	}
	workers := cCtx.Int("workers")
	if workers < 1 {
		workers = 1
	}

	w := cCtx.App.Writer
	fmt.Fprintf(w, "RSA Benchmark Results\n")
	fmt.Fprintf(w, "=====================\n")
	fmt.Fprintf(w, "Modulus: %d bits\n", bits)
	fmt.Fprintf(w, "Iterations: %d (workers: %d)\n\n", iterations, workers)

	var (
		mu          sync.Mutex
		keygenTotal time.Duration
		kp          *rsacore.KeyPair
	)
	var g errgroup.Group
	g.SetLimit(workers)
	wall := time.Now()
	for i := 0; i < iterations; i++ {
		g.Go(func() error {
			start := time.Now()
			k, err := keygen.GenerateKeyPair(bits, nil)
			elapsed := time.Since(start)
			if err != nil {
				return fmt.Errorf("keygen: %w", err)
			}
			mu.Lock()
			keygenTotal += elapsed
			kp = k
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Fprintf(w, "  KeyGen:  %v (avg), %v (wall)\n", keygenTotal/time.Duration(iterations), time.Since(wall))

	pub, priv := kp.PublicKey(), kp.PrivateKey()
	m, err := utils.RandomInt(nil, pub.N)
	if err != nil {
		return err
	}

	var encryptTotal time.Duration
	var c *big.Int
	for i := 0; i < iterations; i++ {
		start := time.Now()
		c, err = cipher.Encrypt(pub, m)
		encryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
	}
	fmt.Fprintf(w, "  Encrypt: %v (avg)\n", encryptTotal/time.Duration(iterations))

	var decryptTotal time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		got, err := cipher.Decrypt(priv, c)
		decryptTotal += time.Since(start)
		if err != nil {
			return fmt.Errorf("decrypt: %w", err)
		}
		if got.Cmp(m) != 0 {
			return fmt.Errorf("decrypt: round trip mismatch")
		}
	}
	fmt.Fprintf(w, "  Decrypt: %v (avg)\n", decryptTotal/time.Duration(iterations))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Benchmark complete!")
	return nil
}
