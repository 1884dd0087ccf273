// Command sneakypete is the CLI front-end for the FAT32 free-cluster
// steganographic store implemented by internal/ops. Argument parsing and
// logging are the only ambient concerns this layer owns; the four verbs
// themselves are pure delegations to internal/ops (spec.md §6).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davidbonn/sneaky-pete/internal/ops"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		block      string
		passphrase string
		offset     int
		verbose    bool
		info       bool
		check      bool
		bleach     bool
		get        string
		put        string
	)

	cmd := &cobra.Command{
		Use:          "sneakypete",
		Short:        "Hide and recover an encrypted payload in a FAT32 image's free clusters",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(runConfig{
				block:      block,
				passphrase: passphrase,
				offset:     offset,
				verbose:    verbose,
				info:       info,
				check:      check,
				bleach:     bleach,
				get:        get,
				put:        put,
			})
		},
	}

	cmd.Flags().StringVar(&block, "block", "", "path to the FAT32 image (required)")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "passphrase for the crypto envelope")
	cmd.Flags().IntVar(&offset, "offset", 1, "free-cluster placement offset")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "enable verbose logging")
	cmd.Flags().BoolVar(&info, "info", false, "print filesystem and free-space stats")
	cmd.Flags().BoolVar(&check, "check", false, "verify the slug at --offset")
	cmd.Flags().BoolVar(&bleach, "bleach", false, "overwrite all free clusters with random bytes")
	cmd.Flags().StringVar(&get, "get", "", "recover the slug at --offset to this path")
	cmd.Flags().StringVar(&put, "put", "", "embed this file as a slug at --offset")
	_ = cmd.MarkFlagRequired("block")

	return cmd
}

type runConfig struct {
	block      string
	passphrase string
	offset     int
	verbose    bool
	info       bool
	check      bool
	bleach     bool
	get        string
	put        string
}

func run(cfg runConfig) error {
	verbs := 0
	for _, set := range []bool{cfg.info, cfg.check, cfg.bleach, cfg.get != "", cfg.put != ""} {
		if set {
			verbs++
		}
	}
	if verbs > 1 {
		return errors.New("--info, --check, --bleach, --get and --put are mutually exclusive")
	}

	// spec.md §9 flags the reference CLI's precondition as a conjunction
	// where a disjunction was intended (it only required --passphrase when
	// --check, --get AND --put were all set at once). This requires a
	// passphrase for any one of them individually.
	if (cfg.check || cfg.get != "" || cfg.put != "") && cfg.passphrase == "" {
		return errors.New("--passphrase is required for --check, --get or --put")
	}

	log := newLogger(cfg.verbose)
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar()

	fsys := afero.NewOsFs()

	if exists, err := afero.Exists(fsys, cfg.block); err != nil || !exists {
		return fmt.Errorf("block device %s does not exist", cfg.block)
	}

	if cfg.info {
		result, err := ops.Info(fsys, cfg.block, cfg.offset, sugar)
		if err != nil {
			return err
		}
		fmt.Printf("label=%q bytes_per_cluster=%d fat_entries=%d free_clusters=%d\n",
			result.Label, result.BytesPerCluster, result.FATEntryCount, result.FreeClusterCount)
	}

	if cfg.check {
		ok, err := ops.Check(fsys, cfg.block, cfg.passphrase, cfg.offset, sugar)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("check failed: invalid slug but okay header, or no slug present")
		}
	}

	switch {
	case cfg.get != "":
		ok, err := ops.Get(fsys, cfg.block, cfg.get, cfg.passphrase, cfg.offset, sugar)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("get failed: no recoverable slug at this offset")
		}
	case cfg.put != "":
		if err := ops.Put(fsys, cfg.block, cfg.put, cfg.passphrase, cfg.offset, sugar); err != nil {
			return err
		}
	}

	if cfg.bleach {
		if err := ops.Bleach(fsys, cfg.block, sugar); err != nil {
			return err
		}
	}

	return nil
}

func newLogger(verbose bool) *zap.Logger {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log
}
