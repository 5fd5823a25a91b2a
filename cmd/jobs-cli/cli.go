package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"

	"github.com/okian/jobfeed/internal/adapters/crm"
	service "github.com/okian/jobfeed/internal/app"
	"github.com/okian/jobfeed/internal/config"
	"github.com/okian/jobfeed/internal/domain/model"
)

// CLI is the kong command tree.
type CLI struct {
	Verbose bool `help:"Enable debug logging."`

	VersionFlag kong.VersionFlag `name:"version" help:"Print version."`

	Fetch FetchCmd `cmd:"" help:"Fetch jobs once and print them as JSON."`
}

// Context is handed to every command's Run.
type Context struct {
	Out    io.Writer
	Logger zerolog.Logger

	// loadConfig is replaced in tests.
	loadConfig func(context.Context) (*config.Config, error)
}

// FetchCmd runs the pipeline once.
type FetchCmd struct {
	Raw   bool `help:"Print every visible job before selection."`
	Limit int  `help:"Maximum jobs to return (default: max_jobs from config)."`
}

// Run executes the fetch.
func (f *FetchCmd) Run(ctx *Context) error {
	runCtx := context.Background()
	load := ctx.loadConfig
	if load == nil {
		load = config.Load
	}
	cfg, err := load(runCtx)
	if err != nil {
		return err
	}
	if f.Limit > 0 {
		cfg.MaxJobs = f.Limit
	}

	client := crm.NewClient(
		crm.WithBaseURL(cfg.APIBaseURL),
		crm.WithAPIVersion(cfg.APIVersion),
		crm.WithTimeout(cfg.RequestTimeout()),
	)
	defer client.Close()

	lister, err := service.FromConfig(cfg, client)
	if err != nil {
		return err
	}
	svc, ok := lister.(*service.Service)
	if !ok {
		return fmt.Errorf("unexpected lister %T", lister)
	}

	start := time.Now()
	var payload any
	var count int
	if f.Raw {
		var jobs []model.Job
		jobs, err = svc.VisibleJobs(runCtx)
		payload, count = service.Result{Jobs: jobs}, len(jobs)
	} else {
		var res service.Result
		res, err = svc.ListJobs(runCtx)
		payload, count = res, len(res.Jobs)
	}
	if err != nil {
		return describe(err)
	}

	ctx.Logger.Debug().
		Str("object", cfg.JobsObjectName).
		Int("jobs", count).
		Dur("took", time.Since(start)).
		Msg("fetched")

	enc := json.NewEncoder(ctx.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}

// describe adds the CRM response body to upstream failures.
func describe(err error) error {
	var upstream *crm.UpstreamError
	if errors.As(err, &upstream) {
		return fmt.Errorf("%w: %s", upstream, upstream.Body)
	}
	return err
}
