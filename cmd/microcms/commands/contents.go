package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// queryFlags holds the query parameters shared by the read commands.
type queryFlags struct {
	draftKey         string
	limit            int
	offset           int
	orders           string
	q                string
	fields           []string
	ids              []string
	filters          string
	depth            int
	richEditorFormat string
	raw              string
}

func (f *queryFlags) register(cmd *cobra.Command, list bool) {
	flags := cmd.Flags()
	flags.StringVar(&f.draftKey, "draft-key", "", "draft key for reading unpublished content")
	flags.StringSliceVar(&f.fields, "fields", nil, "fields to return (comma separated)")
	flags.IntVar(&f.depth, "depth", 0, "reference expansion depth (1-3)")
	flags.StringVar(&f.richEditorFormat, "rich-editor-format", "", "rich editor output (html or object)")
	flags.StringVar(&f.raw, "query", "", "raw query string, e.g. \"limit=10&orders=-publishedAt\"")

	if !list {
		return
	}

	flags.IntVar(&f.limit, "limit", 0, "maximum number of contents (API default 10, max 100)")
	flags.IntVar(&f.offset, "offset", 0, "number of contents to skip")
	flags.StringVar(&f.orders, "orders", "", "sort order, e.g. -publishedAt")
	flags.StringVar(&f.q, "q", "", "full text search keyword")
	flags.StringSliceVar(&f.ids, "ids", nil, "content IDs to return (comma separated)")
	flags.StringVar(&f.filters, "filters", "", "filter expression, e.g. title[contains]hello")
}

// build merges the raw query string with the typed flags. Flags win.
func (f *queryFlags) build() (*microcms.Queries, error) {
	queries, err := microcms.ParseQueries(f.raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --query: %w", err)
	}

	if f.draftKey != "" {
		queries.WithDraftKey(f.draftKey)
	}

	if f.limit > 0 {
		queries.WithLimit(f.limit)
	}

	if f.offset > 0 {
		queries.WithOffset(f.offset)
	}

	if f.orders != "" {
		queries.WithOrders(f.orders)
	}

	if f.q != "" {
		queries.WithQ(f.q)
	}

	if len(f.fields) > 0 {
		queries.WithFields(f.fields...)
	}

	if len(f.ids) > 0 {
		queries.WithIDs(f.ids...)
	}

	if f.filters != "" {
		queries.WithFilters(f.filters)
	}

	if f.depth > 0 {
		queries.WithDepth(f.depth)
	}

	if f.richEditorFormat != "" {
		queries.WithRichEditorFormat(microcms.RichEditorFormat(f.richEditorFormat))
	}

	return queries, nil
}

// NewGetCommand creates the get command.
func NewGetCommand() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "get ENDPOINT [CONTENT_ID]",
		Short: "Get a content",
		Long:  "Get one content of a list endpoint, or the content of an object endpoint when CONTENT_ID is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := flags.build()
			if err != nil {
				return err
			}

			client, err := clientFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req := &microcms.GetRequest{Endpoint: args[0], Queries: queries}
			if len(args) == 2 {
				req.ContentID = args[1]
			}

			var content microcms.Content

			err = client.Get(cmd.Context(), req, &content)
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), content, func(out io.Writer) error {
				return displayContentTable(out, content)
			})
		},
	}

	flags.register(cmd, false)

	return cmd
}

// NewObjectCommand creates the object command.
func NewObjectCommand() *cobra.Command {
	var flags queryFlags

	cmd := &cobra.Command{
		Use:   "object ENDPOINT",
		Short: "Get an object content",
		Long:  "Get the single content of an object endpoint",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := flags.build()
			if err != nil {
				return err
			}

			client, err := clientFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			var content microcms.Content

			err = client.GetObject(cmd.Context(), &microcms.GetObjectRequest{Endpoint: args[0], Queries: queries}, &content)
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), content, func(out io.Writer) error {
				return displayContentTable(out, content)
			})
		},
	}

	flags.register(cmd, false)

	return cmd
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	var (
		flags       queryFlags
		allPages    bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "list ENDPOINT",
		Short: "List contents",
		Long:  "List contents of a list endpoint, one page or every page with --all",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			queries, err := flags.build()
			if err != nil {
				return err
			}

			client, err := clientFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			renderRows := func(contents []microcms.Content) func(io.Writer) error {
				return func(out io.Writer) error {
					return displayContentsTable(out, contents, flags.fields)
				}
			}

			if allPages {
				contents, err := microcms.GetAllContents[microcms.Content](cmd.Context(), client, &microcms.GetAllContentsRequest{
					Endpoint:    args[0],
					Queries:     queries,
					Concurrency: concurrency,
				})
				if err != nil {
					return err
				}

				return renderOutput(cmd.OutOrStdout(), contents, renderRows(contents))
			}

			page, err := microcms.GetList[microcms.Content](cmd.Context(), client, &microcms.GetListRequest{
				Endpoint: args[0],
				Queries:  queries,
			})
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), page, func(out io.Writer) error {
				err := renderRows(page.Contents)(out)
				if err != nil {
					return err
				}

				_, _ = fmt.Fprintf(out, "\nShowing %d-%d of %d\n", page.Offset+min(1, len(page.Contents)), page.Offset+len(page.Contents), page.TotalCount)

				return nil
			})
		},
	}

	flags.register(cmd, true)
	cmd.Flags().BoolVar(&allPages, "all", false, "fetch all pages")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultPageFetchConcurrency, "parallel page reads with --all")

	return cmd
}

// NewIDsCommand creates the ids command.
func NewIDsCommand() *cobra.Command {
	var (
		field    string
		filters  string
		orders   string
		draftKey string
	)

	cmd := &cobra.Command{
		Use:   "ids ENDPOINT",
		Short: "List every content ID",
		Long:  "Page through a list endpoint and print the ID, or another string field, of every content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := clientFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ids, err := microcms.GetAllContentIDs(cmd.Context(), client, &microcms.GetAllContentIDsRequest{
				Endpoint:       args[0],
				AlternateField: field,
				DraftKey:       draftKey,
				Filters:        filters,
				Orders:         orders,
			})
			if err != nil {
				return err
			}

			return renderOutput(cmd.OutOrStdout(), ids, func(out io.Writer) error {
				for _, id := range ids {
					_, _ = fmt.Fprintln(out, id)
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&field, "field", "", "string field to collect instead of id")
	cmd.Flags().StringVar(&filters, "filters", "", "filter expression")
	cmd.Flags().StringVar(&orders, "orders", "", "sort order")
	cmd.Flags().StringVar(&draftKey, "draft-key", "", "draft key for reading unpublished content")

	return cmd
}

// NewCreateCommand creates the create command.
func NewCreateCommand() *cobra.Command {
	var (
		contentID string
		draft     bool
		data      string
		file      string
	)

	cmd := &cobra.Command{
		Use:   "create ENDPOINT",
		Short: "Create a content",
		Long: `Create a content from JSON or YAML given with --data or --file ("-" reads stdin).

With --id the content is created under that ID, otherwise the API assigns one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd.InOrStdin(), data, file)
			if err != nil {
				return err
			}

			client, err := clientFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			written, err := client.Create(cmd.Context(), &microcms.CreateRequest{
				Endpoint:  args[0],
				ContentID: contentID,
				Content:   content,
				IsDraft:   draft,
			})
			if err != nil {
				return err
			}

			return renderWriteResponse(cmd.OutOrStdout(), "Created", written)
		},
	}

	cmd.Flags().StringVar(&contentID, "id", "", "content ID to create the content under")
	cmd.Flags().BoolVar(&draft, "draft", false, "save the content as a draft")
	cmd.Flags().StringVarP(&data, "data", "d", "", "content as inline JSON or YAML")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file holding the content (- for stdin)")

	return cmd
}

// NewUpdateCommand creates the update command.
func NewUpdateCommand() *cobra.Command {
	var (
		data string
		file string
	)

	cmd := &cobra.Command{
		Use:   "update ENDPOINT [CONTENT_ID]",
		Short: "Update a content",
		Long:  "Partially update a content of a list endpoint, or an object endpoint when CONTENT_ID is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(cmd.InOrStdin(), data, file)
			if err != nil {
				return err
			}

			client, err := clientFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			req := &microcms.UpdateRequest{Endpoint: args[0], Content: content}
			if len(args) == 2 {
				req.ContentID = args[1]
			}

			written, err := client.Update(cmd.Context(), req)
			if err != nil {
				return err
			}

			return renderWriteResponse(cmd.OutOrStdout(), "Updated", written)
		},
	}

	cmd.Flags().StringVarP(&data, "data", "d", "", "fields to change as inline JSON or YAML")
	cmd.Flags().StringVarP(&file, "file", "f", "", "file holding the fields to change (- for stdin)")

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete ENDPOINT CONTENT_ID",
		Short: "Delete a content",
		Long:  "Delete one content of a list endpoint",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, contentID := args[0], args[1]

			if !force {
				confirmed, err := confirm(cmd, fmt.Sprintf("Really delete %s/%s? (y/N): ", endpoint, contentID))
				if err != nil {
					return err
				}

				if !confirmed {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")

					return nil
				}
			}

			client, err := clientFactory(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			err = client.Delete(cmd.Context(), &microcms.DeleteRequest{Endpoint: endpoint, ContentID: contentID})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s/%s\n", endpoint, contentID)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "delete without confirmation")

	return cmd
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	answer, err := promptLine(cmd.ErrOrStderr(), bufio.NewReader(cmd.InOrStdin()), prompt)
	if errors.Is(err, io.EOF) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	answer = strings.ToLower(answer)

	return answer == "y" || answer == "yes", nil
}

func renderWriteResponse(out io.Writer, verb string, written *microcms.WriteResponse) error {
	return renderOutput(out, written, func(out io.Writer) error {
		table := tablewriter.NewWriter(out)
		table.Header("Status", "ID")
		_ = table.Append(verb, written.ID)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	})
}
