package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/config"
	"github.com/matzehuels/labelsheet/pkg/errors"
	"github.com/matzehuels/labelsheet/pkg/inventory"
	"github.com/matzehuels/labelsheet/pkg/inventory/mongostore"
	"github.com/matzehuels/labelsheet/pkg/records"
)

// Record sources for fetch.
const (
	sourceAPI   = "api"
	sourceMongo = "mongo"
)

type fetchOpts struct {
	source  string
	filter  inventory.Filter
	output  string
	refresh bool
	noCache bool
}

// fetchCommand exports inventory items as a records file.
func (c *CLI) fetchCommand() *cobra.Command {
	opts := fetchOpts{source: sourceAPI, output: records.Stdin}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Export inventory items as records JSON",
		Long: `Fetch inventory items and write them as a records file that render
reads. Items come from the inventory API (requires login) or directly from
MongoDB with --source mongo.`,
		Example: `  labelsheet fetch -o items.json
  labelsheet fetch --category Equipment --status Active | labelsheet render -
  labelsheet fetch --source mongo --search lab-3 --sort serialNumber`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd, &opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&opts.source, "source", opts.source, "item source: api, mongo")
	fs.StringVar(&opts.filter.Search, "search", "", "match serial, subcategory, faculty, room or department")
	fs.StringVar(&opts.filter.Category, "category", "", "only items in this category")
	fs.StringVar(&opts.filter.Status, "status", "", "only items with this status (Active, Broken)")
	fs.StringVar(&opts.filter.SortBy, "sort", "", "sort by serialNumber, category, status or createdAt")
	fs.BoolVar(&opts.filter.Desc, "desc", false, "sort descending")
	fs.StringVarP(&opts.output, "output", "o", opts.output, "output file (- for stdout)")
	fs.BoolVar(&opts.refresh, "refresh", false, "bypass the response cache")
	fs.BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	return cmd
}

func (c *CLI) runFetch(cmd *cobra.Command, opts *fetchOpts) error {
	ctx := cmd.Context()
	if err := opts.filter.Validate(); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	var items []inventory.Item
	switch opts.source {
	case sourceAPI:
		items, err = c.fetchAPI(ctx, cfg, opts)
	case sourceMongo:
		items, err = fetchMongo(ctx, cfg, opts.filter)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown source %q (must be api or mongo)", opts.source)
	}
	if err != nil {
		return err
	}

	recs := inventory.Records(items)
	if opts.output == records.Stdin {
		c.Logger.Info("fetched items", "source", opts.source, "count", len(recs))
		return records.WriteJSON(cmd.OutOrStdout(), recs)
	}
	if err := records.Export(opts.output, recs); err != nil {
		return err
	}
	printSuccess("Fetched %d items", len(recs))
	printFile(opts.output)
	return nil
}

func (c *CLI) fetchAPI(ctx context.Context, cfg *config.Config, opts *fetchOpts) ([]inventory.Item, error) {
	store, err := c.newCache(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	client, sess, err := c.inventoryClient(ctx, cfg, store)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("listing inventory", "url", client.BaseURL(), "user", sess.Username())
	items, err := client.List(ctx, opts.refresh)
	if err != nil {
		return nil, err
	}
	return opts.filter.Apply(items), nil
}

func fetchMongo(ctx context.Context, cfg *config.Config, f inventory.Filter) ([]inventory.Item, error) {
	logger := loggerFromContext(ctx)
	logger.Debug("connecting to mongo", "database", cfg.Mongo.Database, "collection", cfg.Mongo.Collection)
	store, err := mongostore.Open(ctx, cfg.Mongo)
	if err != nil {
		return nil, err
	}
	defer store.Close(context.WithoutCancel(ctx))

	items, err := store.Items(ctx, f)
	if err != nil {
		return nil, err
	}
	logger.Debug("read items from mongo", "count", len(items))
	return items, nil
}
