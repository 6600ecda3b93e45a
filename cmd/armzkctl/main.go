// Command armzkctl is the CLI surface of this system: commit, prove,
// verify, and setup, per spec §6.
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/fidesinnova/armzk/commitment"
	"github.com/fidesinnova/armzk/field"
	"github.com/fidesinnova/armzk/instance"
	"github.com/fidesinnova/armzk/kzg"
	"github.com/fidesinnova/armzk/proof"
	"github.com/fidesinnova/armzk/reject"
	"github.com/fidesinnova/armzk/tracer"
	"github.com/fidesinnova/armzk/wire"
)

// exitInternal is spec §6's reserved exit code for internal errors
// (malformed files, bad hex).
const exitInternal = 2

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	app := &cli.App{
		Name:  "armzkctl",
		Usage: "commit/prove/verify pipeline for ARM64 execution traces",
		Commands: []*cli.Command{
			setupCmd(log),
			commitCmd(log),
			proveCmd(log),
			verifyCmd(log),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitInternal)
	}
}

func setupCmd(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "write a deterministic SRS to a file",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "max-degree", Value: 4096},
			&cli.StringFlag{Name: "out", Required: true},
		},
		Action: func(c *cli.Context) error {
			srs := kzg.DeterministicSetup(c.Int("max-degree"))
			log.Info("srs generated", zap.Int("max_degree", srs.MaxDegree()))
			return writeSRS(c.String("out"), srs)
		},
	}
}

func commitCmd(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "commit",
		Usage:     "commit to a program's source bytes",
		ArgsUsage: "<asm>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "srs", Required: true},
			&cli.StringFlag{Name: "source", Value: string(commitment.SourceASM)},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return cli.Exit("usage: armzkctl commit <asm>", exitInternal)
			}
			code, err := os.ReadFile(path)
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			srs, err := readSRS(c.String("srs"))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			cc, err := commitment.Build(srs, code, commitment.SourceKind(c.String("source")))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			out := path + ".com"
			if err := os.WriteFile(out, []byte(wire.EncodeCommitment(cc)), 0o644); err != nil {
				return cli.Exit(err, exitInternal)
			}
			log.Info("commitment written", zap.String("path", out), zap.Uint64("code_size", cc.CodeSize))
			return nil
		},
	}
}

func proveCmd(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "prove",
		Usage:     "trace a program's execution and produce a proof",
		ArgsUsage: "<program>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "srs", Required: true},
			&cli.StringFlag{Name: "domain-tag", Required: true, Usage: "hex-encoded 32-byte domain tag"},
			&cli.StringFlag{Name: "input", Value: ""},
			&cli.IntFlag{Name: "max-steps", Value: 100000},
		},
		Action: func(c *cli.Context) error {
			program := c.Args().First()
			if program == "" {
				return cli.Exit("usage: armzkctl prove <program>", exitInternal)
			}
			srs, err := readSRS(c.String("srs"))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			ccText, err := os.ReadFile(program + ".com")
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			cc, err := wire.DecodeCommitment(string(ccText))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}

			rows, err := tracer.Trace(context.Background(), log, program, nil, c.Int("max-steps"))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}

			domainTag, err := parseHexDigest(c.String("domain-tag"))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			pub := instance.Public{
				DomainTag: domainTag,
				InputSHA:  field.Sha256([]byte(c.String("input"))),
			}

			p, err := proof.Prove(srs, cc, pub, rows, proof.DefaultOpcodeSamples, proof.DefaultRowSamples)
			if err != nil {
				return cli.Exit(err, exitInternal)
			}

			out := program + ".prf"
			if err := os.WriteFile(out, []byte(wire.EncodeProof(p)), 0o644); err != nil {
				return cli.Exit(err, exitInternal)
			}
			log.Info("proof written", zap.String("path", out), zap.Uint32("trace_len", p.TraceLen))
			return nil
		},
	}
}

func verifyCmd(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "verify a proof against a commitment",
		ArgsUsage: "<com> <prf>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "srs", Required: true},
			&cli.StringFlag{Name: "domain-tag", Required: true},
			&cli.StringFlag{Name: "input", Value: ""},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() < 2 {
				return cli.Exit("usage: armzkctl verify <com> <prf>", exitInternal)
			}
			comPath, prfPath := c.Args().Get(0), c.Args().Get(1)

			srs, err := readSRS(c.String("srs"))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			ccText, err := os.ReadFile(comPath)
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			cc, err := wire.DecodeCommitment(string(ccText))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			prfText, err := os.ReadFile(prfPath)
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			p, err := wire.DecodeProof(string(prfText))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}

			domainTag, err := parseHexDigest(c.String("domain-tag"))
			if err != nil {
				return cli.Exit(err, exitInternal)
			}
			pub := instance.Public{
				DomainTag: domainTag,
				InputSHA:  field.Sha256([]byte(c.String("input"))),
			}

			verr := proof.Verify(srs, cc, pub, p, proof.DefaultOpcodeSamples, proof.DefaultRowSamples)
			if verr != nil {
				reason, _ := reject.Reason(verr)
				fmt.Fprintln(os.Stderr, reason)
				return cli.Exit("", 1)
			}
			fmt.Println("accept")
			return nil
		},
	}
}

func parseHexDigest(s string) ([32]byte, error) {
	var out [32]byte
	if len(s) != 64 {
		return out, fmt.Errorf("domain-tag must be 64 hex chars, got %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}
