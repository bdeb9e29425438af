package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fekuna/omnipos-register/internal/apperror"
	"github.com/fekuna/omnipos-register/internal/checkout"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

// exitErr carries a numeric exit code through the cobra error path.
type exitErr struct {
	code int
	err  error
}

func (e *exitErr) Error() string { return e.err.Error() }
func (e *exitErr) Unwrap() error { return e.err }

// classify maps a domain error to the exit code operators script against.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ee *exitErr
	if errors.As(err, &ee) {
		return err
	}

	var syncErr *apperror.SyncError
	var parseErr *apperror.ParseError
	switch {
	case apperror.IsValidation(err), apperror.IsNotFound(err), apperror.IsStock(err),
		errors.Is(err, apperror.ErrEmptyCart), errors.Is(err, checkout.ErrLockBusy):
		return &exitErr{code: 2, err: err}
	case errors.As(err, &syncErr), errors.Is(err, apperror.ErrNotConfigured):
		return &exitErr{code: 3, err: err}
	case errors.As(err, &parseErr):
		return &exitErr{code: 4, err: err}
	default:
		return &exitErr{code: 1, err: err}
	}
}

func main() {
	root := &cobra.Command{
		Use:           "register",
		Short:         "Point-of-sale register with catalog, checkout and cloud sync",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newProductCmd(),
		newVariantCmd(),
		newStockCmd(),
		newCustomerCmd(),
		newSellCmd(),
		newReportCmd(),
		newSyncCmd(),
		newExportCmd(),
		newImportCmd(),
	)

	if err := root.Execute(); err != nil {
		var ee *exitErr
		if errors.As(err, &ee) {
			fmt.Fprintln(os.Stderr, "Error:", ee.err)
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
