package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/cxtools/cxlayout/pkg/config"
	"github.com/cxtools/cxlayout/pkg/cx"
	"github.com/cxtools/cxlayout/pkg/errors"
	"github.com/cxtools/cxlayout/pkg/layout"
	"github.com/cxtools/cxlayout/pkg/ndex"
)

// networkxLayoutOptions carries the positionals and flags for one run.
type networkxLayoutOptions struct {
	Layout   string
	Username string
	Password string
	Server   string

	UUID              string
	Scale             float64
	Center            string
	SpringIterations  int
	SpringK           *float64
	Seed              *int64
	TmpDir            string
	OutputCX          string
	SkipUpload        bool
	UpdateFullNetwork bool
	Profile           string
	Conf              string

	// Client overrides the NDEx client. Used by tests to substitute a
	// double for the real server.
	Client ndex.Client
}

// networkxLayoutCommand creates the networkxlayout command.
func (c *CLI) networkxLayoutCommand() *cobra.Command {
	var (
		opts    networkxLayoutOptions
		springK float64
		seed    int64
	)

	cmd := &cobra.Command{
		Use:   "networkxlayout <layout> <username> <password> <server>",
		Short: "Update the layout of a network stored in NDEx",
		Long: fmt.Sprintf(`Update the layout of a network stored in NDEx.

The network must be specified by NDEx UUID via the --uuid flag. The layout
positional selects the algorithm; declared choices are:

  %s

Pass "-" for username, password, or server to take that value from the
profile selected by --profile in the config file (--conf, default
~/.config/cxlayout/config.toml).

The --scale and --center flags apply to all layouts. Flags starting with
--<LAYOUT>_ only affect that layout, like --spring_k and
--spring_iterations for the spring layout.

By default only the cartesianLayout aspect is written back to NDEx; pass
--updatefullnetwork to replace the whole network document, or --skipupload
to compute the layout without writing anything back.

Example:

  cxlayout networkxlayout spring - - - --uuid XXXX-XXX --spring_k 0.5

WARNING: THIS IS AN UNTESTED ALPHA IMPLEMENTATION AND MAY CONTAIN
ERRORS. YOU HAVE BEEN WARNED.`, strings.Join(layout.DeclaredNames(), ", ")),
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Layout = args[0]
			opts.Username = args[1]
			opts.Password = args[2]
			opts.Server = args[3]

			if !slices.Contains(layout.DeclaredNames(), opts.Layout) {
				return errors.New(errors.ErrCodeInvalidInput,
					"layout must be one of: %s", strings.Join(layout.DeclaredNames(), ", "))
			}
			if cmd.Flags().Changed("spring_k") {
				opts.SpringK = &springK
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seed
			}

			return c.runNetworkxLayout(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.UUID, "uuid", "", "UUID of the network in NDEx to update")
	cmd.Flags().Float64Var(&opts.Scale, "scale", 300.0, "scale to pass to the layout algorithm")
	cmd.Flags().StringVar(&opts.Center, "center", "", "comma delimited coordinate pair denoting the layout center; assumed to be X,Y but the engine's axis order is unverified")
	cmd.Flags().IntVar(&opts.SpringIterations, "spring_iterations", 50, "maximum number of iterations (spring)")
	cmd.Flags().Float64Var(&springK, "spring_k", 0, "optimal distance between nodes; unset means 1/sqrt(n) (spring)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible layouts")
	cmd.Flags().StringVar(&opts.TmpDir, "tmpdir", "", "parent directory for the temporary staging directory")
	cmd.Flags().BoolVar(&opts.SkipUpload, "skipupload", false, "compute the layout but do not write anything back to NDEx")
	cmd.Flags().StringVar(&opts.OutputCX, "outputcx", "", "write the updated CX document to this file instead of the staging directory")
	cmd.Flags().BoolVar(&opts.UpdateFullNetwork, "updatefullnetwork", false, "update the entire network instead of just the cartesianLayout aspect")
	cmd.Flags().StringVar(&opts.Profile, "profile", config.DefaultProfile, "config profile to resolve '-' credentials from")
	cmd.Flags().StringVar(&opts.Conf, "conf", "", "path to the config file")

	_ = cmd.MarkFlagRequired("uuid")

	return cmd
}

// runNetworkxLayout executes the download → layout → upload pipeline.
// The staging directory is removed on every exit path. A *ndex.ServerError
// is the only error class handled here: its status code and server message
// are logged before the error is returned; everything else propagates as-is.
func (c *CLI) runNetworkxLayout(ctx context.Context, opts networkxLayoutOptions) error {
	printWarning("Untested alpha implementation, verify results before relying on them")
	c.Logger.Warn("this is an untested alpha implementation and may contain errors")

	if _, err := uuid.Parse(opts.UUID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidUUID, err, "invalid network UUID %q", opts.UUID)
	}

	creds, err := config.Resolve(config.Credentials{
		Username: opts.Username,
		Password: opts.Password,
		Server:   opts.Server,
	}, opts.Profile, opts.Conf)
	if err != nil {
		return err
	}

	client := opts.Client
	if client == nil {
		client = ndex.NewHTTPClient(creds.Server, creds.Username, creds.Password)
	}

	staging, err := os.MkdirTemp(opts.TmpDir, appName+"-")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	err = c.layoutPipeline(ctx, client, creds.Server, staging, opts)
	if se, ok := ndex.AsServerError(err); ok {
		c.Logger.Error("received error code from ndex server", "status", se.StatusCode)
		if se.Message != "" {
			c.Logger.Error("message from ndex server", "message", se.Message)
		}
	}
	return err
}

func (c *CLI) layoutPipeline(ctx context.Context, client ndex.Client, server, staging string, opts networkxLayoutOptions) error {
	inputCX := filepath.Join(staging, opts.UUID+".cx")

	dl := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, "Downloading network...")
	spinner.Start()
	if err := client.DownloadNetwork(ctx, opts.UUID, inputCX); err != nil {
		spinner.StopWithError("Download failed")
		return err
	}
	spinner.Stop()
	dl.done("downloaded network")

	aspect, outputCX, stats, err := c.applyLayout(ctx, staging, inputCX, opts)
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputCX)
	printStats(stats.nodes, stats.edges)

	if opts.SkipUpload {
		c.Logger.Info("skipping upload to ndex")
		printInfo("Upload skipped")
		return nil
	}

	if opts.UpdateFullNetwork {
		c.Logger.Info("updating entire network on ndex",
			"uuid", opts.UUID, "server", server)
		return client.UpdateNetwork(ctx, opts.UUID, outputCX)
	}

	c.Logger.Info("updating cartesianLayout aspect on ndex",
		"uuid", opts.UUID, "server", server)
	return client.UpdateAspect(ctx, opts.UUID, cx.AspectCartesianLayout, aspect)
}

// networkStats reports the size of the network the layout was computed for.
type networkStats struct {
	nodes int
	edges int
}

// applyLayout parses the CX file, runs the configured layout on its
// structural graph, attaches the resulting cartesianLayout aspect, and
// writes the updated document. Returns the aspect and the output file path.
func (c *CLI) applyLayout(ctx context.Context, staging, cxFile string, opts networkxLayoutOptions) ([]cx.CartesianCoordinate, string, networkStats, error) {
	var stats networkStats

	c.Logger.Info("loading network", "file", cxFile)
	net, err := cx.ReadNetworkFile(cxFile)
	if err != nil {
		return nil, "", stats, err
	}

	provider, err := layout.Lookup(opts.Layout)
	if err != nil {
		return nil, "", stats, err
	}
	lopts, err := opts.layoutOptions()
	if err != nil {
		return nil, "", stats, err
	}

	// The graph is a throwaway structural view; it goes out of scope as
	// soon as the engine has produced positions.
	g := cx.NewGraph(net)
	stats = networkStats{nodes: g.NodeCount(), edges: g.EdgeCount()}

	c.Logger.Info("applying layout", "layout", opts.Layout,
		"nodes", stats.nodes, "edges", stats.edges)

	lp := newProgress(c.Logger)
	pos, err := provider.Layout(ctx, g, lopts)
	if err != nil {
		return nil, "", stats, err
	}
	lp.done("computed layout")

	c.Logger.Debug("converting positions to cartesianLayout aspect")
	aspect, err := layout.ToAspect(pos)
	if err != nil {
		return nil, "", stats, err
	}
	if err := net.SetAspect(cx.AspectCartesianLayout, aspect); err != nil {
		return nil, "", stats, err
	}

	outputCX := opts.OutputCX
	if outputCX == "" {
		outputCX = filepath.Join(staging, "output.cx")
	}
	c.Logger.Info("writing CX file", "file", outputCX)
	if err := net.WriteNetworkFile(outputCX); err != nil {
		return nil, "", stats, err
	}

	return aspect, outputCX, stats, nil
}

// layoutOptions maps the command flags onto layout provider options.
func (o networkxLayoutOptions) layoutOptions() (layout.Options, error) {
	center, err := parseCenter(o.Center)
	if err != nil {
		return layout.Options{}, err
	}
	return layout.Options{
		Scale:      o.Scale,
		Center:     center,
		Iterations: o.SpringIterations,
		K:          o.SpringK,
		Seed:       o.Seed,
	}, nil
}

// parseCenter splits a comma-delimited coordinate pair. The first component
// is treated as X and the second as Y; the engine's own axis order has never
// been confirmed upstream, which is why the flag help carries the caveat.
func parseCenter(s string) (*[2]float64, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return nil, errors.New(errors.ErrCodeInvalidCenter,
			"center must be two comma delimited coordinates, got %q", s)
	}
	var center [2]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCenter, err,
				"center component %q is not a number", part)
		}
		center[i] = v
	}
	return &center, nil
}
