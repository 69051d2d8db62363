package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/markkurossi/tabulate"
	"github.com/rs/zerolog"
	"github.com/taurusgroup/alsz-ot/pkg/kdf"
	"github.com/taurusgroup/alsz-ot/pkg/math/curve"
	"github.com/taurusgroup/alsz-ot/pkg/math/sample"
	"github.com/taurusgroup/alsz-ot/pkg/party"
	"github.com/taurusgroup/alsz-ot/pkg/pool"
	"github.com/taurusgroup/alsz-ot/protocols/alsz"
	"golang.org/x/sync/errgroup"
)

var (
	fGroup   = flag.String("group", "secp256k1", "group: secp256k1 or ristretto255")
	fKDF     = flag.String("kdf", "blake3", "KDF for the masked variant: blake3, sha256, sha3-256 or blake2b-256")
	fVariant = flag.String("variant", "masked", "variant: masked or direct")
	fN       = flag.Int("n", 8, "number of transfers")
	fWorkers = flag.Int("workers", 0, "pool workers, 0 for one per CPU, -1 to run inline")
	fTimeout = flag.Duration("timeout", 30*time.Second, "protocol timeout")
	fVerbose = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()

	level := zerolog.InfoLevel
	if *fVerbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.NewConsoleWriter()).Level(level).With().Timestamp().Logger()

	cfg, err := config()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if *fN < 0 {
		log.Fatal().Int("n", *fN).Msg("invalid number of transfers")
	}

	var pl *pool.Pool
	if *fWorkers >= 0 {
		pl = pool.NewPool(*fWorkers)
		defer pl.TearDown()
	}

	choices, x0s, x1s, err := inputs(cfg, *fN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate inputs")
	}

	receiverID, senderID := party.ID("receiver"), party.ID("sender")
	network := NewNetwork(party.NewIDSlice([]party.ID{receiverID, senderID}))

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	start := time.Now()
	var (
		received *alsz.ReceiveResult
		sent     *alsz.SendResult
	)
	g.Go(func() error {
		var err error
		received, err = Receive(ctx, cfg, receiverID, senderID, choices, network, pl, log)
		return err
	})
	g.Go(func() error {
		var err error
		sent, err = Send(ctx, cfg, senderID, receiverID, x0s, x1s, network, pl, log)
		return err
	})
	if err = g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("protocol failed")
	}
	elapsed := time.Since(start)

	failures := printTable(received, x0s, x1s)
	log.Info().
		Str("protocol", cfg.ProtocolID()).
		Str("group", cfg.Group.Name()).
		Int("transfers", sent.Count).
		Int("workers", pl.Workers()).
		Dur("elapsed", elapsed).
		Msg("done")
	if failures > 0 {
		log.Error().Int("failures", failures).Msg("recovered values do not match")
		os.Exit(1)
	}
}

func config() (alsz.Config, error) {
	group, err := curve.ByName(*fGroup)
	if err != nil {
		return alsz.Config{}, err
	}
	k, err := kdf.ByName(*fKDF)
	if err != nil {
		return alsz.Config{}, err
	}
	cfg := alsz.Config{Group: group, KDF: k, Variant: alsz.Variant(*fVariant)}
	return cfg, cfg.Validate()
}

// inputs samples the choice bits and both payloads of every transfer.
func inputs(cfg alsz.Config, n int) ([]uint8, [][]byte, [][]byte, error) {
	bits := make([]byte, n)
	if _, err := rand.Read(bits); err != nil {
		return nil, nil, nil, err
	}
	choices := make([]uint8, n)
	x0s := make([][]byte, n)
	x1s := make([][]byte, n)
	for i := range choices {
		choices[i] = bits[i] & 1
		var err error
		if x0s[i], err = payload(cfg); err != nil {
			return nil, nil, nil, err
		}
		if x1s[i], err = payload(cfg); err != nil {
			return nil, nil, nil, err
		}
	}
	return choices, x0s, x1s, nil
}

func payload(cfg alsz.Config) ([]byte, error) {
	if cfg.Variant == alsz.Direct {
		return sample.Scalar(rand.Reader, cfg.Group).ActOnBase().MarshalBinary()
	}
	out := make([]byte, cfg.MessageLength())
	_, err := rand.Read(out)
	return out, err
}

func short(data []byte) string {
	if len(data) > 8 {
		return hex.EncodeToString(data[:8]) + "…"
	}
	return hex.EncodeToString(data)
}

// printTable shows every transfer, and returns the number of mismatches.
func printTable(result *alsz.ReceiveResult, x0s, x1s [][]byte) int {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("#").SetAlign(tabulate.MR)
	tab.Header("σ").SetAlign(tabulate.MR)
	tab.Header("x₀").SetAlign(tabulate.ML)
	tab.Header("x₁").SetAlign(tabulate.ML)
	tab.Header("Received").SetAlign(tabulate.ML)
	tab.Header("OK").SetAlign(tabulate.MR)

	failures := 0
	for i, choice := range result.Choices {
		expected := x0s[i]
		if choice == 1 {
			expected = x1s[i]
		}
		ok := bytes.Equal(expected, result.Messages[i])
		if !ok {
			failures++
		}

		row := tab.Row()
		row.Column(fmt.Sprintf("%d", i))
		row.Column(fmt.Sprintf("%d", choice))
		row.Column(short(x0s[i]))
		row.Column(short(x1s[i]))
		row.Column(short(result.Messages[i])).SetFormat(tabulate.FmtBold)
		row.Column(fmt.Sprintf("%v", ok))
	}
	tab.Print(os.Stdout)
	return failures
}
