package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"partfs/internal/fs"
	"partfs/internal/logging"
	"partfs/internal/volume"

	"github.com/spf13/pflag"
)

var (
	logger = logging.GetLogger()
)

// config holds everything taken from the command line.
type config struct {
	image      string
	mountPoint string
	writable   bool
	allowOther bool
	verbose    bool
	debug      bool
}

func usage(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, "Usage:\n  partfs [options] <image or device> <mount point>\n\nOptions:\n")
	flagSet.PrintDefaults()
}

// parseArgs reads flags and positional arguments. Mount options given with
// -o are applied after --rw, so "-o ro" wins over "--rw".
func parseArgs(args []string) (*config, error) {
	cfg := &config{}

	flagSet := pflag.NewFlagSet("partfs", pflag.ContinueOnError)
	flagSet.BoolVarP(&cfg.writable, "rw", "w", false, "mount read/write")
	flagSet.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable verbose logging")
	flagSet.BoolVar(&cfg.debug, "debug", false, "print FUSE debug information")
	mountOpts := flagSet.StringSliceP("options", "o", nil, "mount options (rw, ro, allow_other)")
	flagSet.Usage = func() { usage(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}

	for _, opt := range *mountOpts {
		switch opt {
		case "rw":
			cfg.writable = true
		case "ro":
			cfg.writable = false
		case "allow_other":
			cfg.allowOther = true
		default:
			return nil, fmt.Errorf("unknown mount option %q", opt)
		}
	}

	if flagSet.NArg() != 2 {
		usage(flagSet)
		return nil, errors.New("expected an image path and a mount point")
	}
	cfg.image = flagSet.Arg(0)
	cfg.mountPoint = filepath.Clean(flagSet.Arg(1))

	return cfg, nil
}

// exitStatus maps a command line parsing error to the process exit code.
func exitStatus(err error) int {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return 0
	}
	return 1
}

func main() {
	cfg, err := parseArgs(os.Args[1:])
	if err != nil {
		if status := exitStatus(err); status != 0 {
			fmt.Fprintf(os.Stderr, "partfs: %v\n", err)
			os.Exit(status)
		}
		os.Exit(0)
	}

	if cfg.verbose {
		logger.SetLevel(logging.LevelDebug)
	}

	if err := run(cfg); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}

func run(cfg *config) error {
	vol, err := volume.Open(cfg.image, volume.Options{Writable: cfg.writable})
	if err != nil {
		return err
	}
	defer vol.Close()

	logger.Info("Mounting %s at %s", cfg.image, cfg.mountPoint)

	pfs := fs.NewPartFS(vol, fs.Options{
		AllowOther: cfg.allowOther,
		Debug:      cfg.debug,
	})
	if err := pfs.Mount(cfg.mountPoint); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received signal %v", sig)
		if err := pfs.Unmount(cfg.mountPoint); err != nil {
			logger.Error("Unmount error: %v", err)
		}
	}()

	if err := pfs.Wait(); err != nil {
		return err
	}

	if cfg.writable {
		if err := vol.Sync(); err != nil {
			return fmt.Errorf("final sync: %w", err)
		}
	}
	logger.Info("Clean shutdown complete")
	return nil
}
