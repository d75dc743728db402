package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/labelsheet/pkg/inventory"
	"github.com/matzehuels/labelsheet/pkg/records"
)

// batchCommand creates a batch of items through the API and prints their
// labels in one go.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		req     inventory.BatchRequest
		details map[string]string
		export  string
		opts    renderOpts
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Create inventory items and render their labels",
		Long: `Create --count items that share a category and location through the
inventory API, then render a label for every item the API returns, in
creation order. Requires login. The faculty defaults to the logged-in
user's faculty.`,
		Example: `  labelsheet batch --count 12 --category Equipment --sub-category Scales --room B-204
  labelsheet batch --count 40 --category Furniture --detail material=oak -o chairs.pdf`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if len(details) > 0 {
				req.TypeDetails = make(map[string]any, len(details))
				for k, v := range details {
					req.TypeDetails[k] = v
				}
			}

			client, sess, err := c.inventoryClient(ctx, cfg, nil)
			if err != nil {
				return err
			}
			if req.Faculty == "" {
				req.Faculty = sess.Faculty()
			}

			spinner := newSpinnerWithContext(ctx, "Creating items...")
			spinner.Start()
			items, err := client.CreateBatch(ctx, req)
			if err != nil {
				spinner.StopWithError("Batch failed")
				return err
			}
			spinner.StopWithSuccess("Created " + pluralize(len(items), "item"))

			recs := inventory.Records(items)
			if export != "" {
				if err := records.Export(export, recs); err != nil {
					return err
				}
				printFile(export)
			}
			return c.renderRecords(cmd, recs, outputBase(opts.output, ""), &opts)
		},
	}

	fs := cmd.Flags()
	fs.IntVarP(&req.Count, "count", "n", 1, "number of items to create")
	fs.StringVar(&req.Category, "category", "", "item category (required)")
	fs.StringVar(&req.SubCategory, "sub-category", "", "item subcategory")
	fs.StringVar(&req.Faculty, "faculty", "", "faculty (default: your faculty)")
	fs.StringVar(&req.Room, "room", "", "room")
	fs.StringVar(&req.Department, "department", "", "department")
	fs.StringToStringVar(&details, "detail", nil, "type-specific detail as key=value (repeatable)")
	fs.StringVar(&export, "export", "", "also write the created records to this JSON file")
	opts.sheet.register(cmd)
	fs.StringVarP(&opts.output, "output", "o", "", "output base path (default: labels)")
	fs.BoolVar(&opts.stream, "stream", false, "stream the PDF page by page")
	fs.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}
