package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/docopt/docopt-go"

	"spws/application"
	"spws/domain/sharepoint"
	"spws/infrastructure/spclient"
	"spws/interfaces/web/presenters"
)

type cli struct {
	service   application.ListItemsService
	client    spclient.ListsClient
	presenter *presenters.ListPresenter
	out       io.Writer
}

func (c *cli) run(ctx context.Context, opts docopt.Opts) error {
	commands := []struct {
		name string
		fn   func(context.Context, docopt.Opts) error
	}{
		{"lists", c.lists},
		{"list", c.list},
		{"items", c.items},
		{"update", c.update},
		{"export", c.export},
		{"download", c.download},
		{"snapshot", c.snapshot},
		{"snapshots", c.snapshots},
		{"changes", c.changes},
	}
	for _, cmd := range commands {
		if on, _ := opts.Bool(cmd.name); on {
			return cmd.fn(ctx, opts)
		}
	}
	return fmt.Errorf("no command given")
}

func (c *cli) lists(ctx context.Context, opts docopt.Opts) error {
	hidden, _ := opts.Bool("--hidden")
	search, _ := opts.String("--search")
	lists, err := c.service.ListLists(ctx, hidden)
	if err != nil {
		return err
	}
	vm := c.presenter.ToListsViewModel(lists, search)

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TITLE\tID\tITEMS\tLIBRARY")
	for _, l := range vm.Lists {
		fmt.Fprintf(w, "%s\t%s\t%d\t%t\n", l.Title, l.ID, l.ItemCount, l.DocumentLibrary)
	}
	fmt.Fprintf(w, "%d lists\t\t%d\t\n", vm.TotalLists, vm.TotalItems)
	return w.Flush()
}

func (c *cli) list(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<list>")
	l, err := c.service.GetList(ctx, name)
	if err != nil {
		return err
	}
	return c.printJSON(l)
}

func (c *cli) items(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<list>")
	queryOpts, err := queryOptions(opts)
	if err != nil {
		return err
	}

	var query spclient.QueryBuilder
	if path, _ := opts.String("--caml"); path != "" {
		fragment, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read query: %w", err)
		}
		query = spclient.RawXML(string(fragment))
	}

	items, err := c.service.QueryItems(ctx, name, queryOpts, query)
	if err != nil {
		return err
	}
	return c.printJSON(items)
}

func (c *cli) update(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<list>")
	path, _ := opts.String("<mutations>")

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read mutations: %w", err)
	}
	var mutations []sharepoint.MutationRequest
	if err := json.Unmarshal(data, &mutations); err != nil {
		return fmt.Errorf("parse mutations: %w", err)
	}

	batchOpts := sharepoint.DefaultBatchOptions()
	if policy, _ := opts.String("--on-error"); policy != "" {
		batchOpts.OnError = sharepoint.OnErrorPolicy(policy)
	}
	batchOpts.ViewName, _ = opts.String("--view")
	batchOpts.ListVersion, _ = opts.String("--list-version")

	outcome, err := c.service.ApplyMutations(ctx, name, batchOpts, mutations, nil)
	if err != nil {
		return err
	}
	if err := c.printJSON(outcome); err != nil {
		return err
	}
	if outcome.Failed > 0 {
		return fmt.Errorf("%d of %d methods failed", outcome.Failed, len(outcome.Results))
	}
	return nil
}

func (c *cli) export(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<list>")
	path, _ := opts.String("<out>")
	queryOpts, err := queryOptions(opts)
	if err != nil {
		return err
	}

	buf, err := c.service.ExportList(ctx, name, queryOpts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(c.out, "wrote %s (%d bytes)\n", path, buf.Len())
	return nil
}

func (c *cli) download(ctx context.Context, opts docopt.Opts) error {
	ref, _ := opts.String("<fileref>")
	path, _ := opts.String("<out>")

	data, err := c.client.DownloadFile(ctx, ref)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	fmt.Fprintf(c.out, "wrote %s (%d bytes)\n", path, len(data))
	return nil
}

func (c *cli) snapshot(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<list>")
	view, _ := opts.String("--view")

	snapshot, err := c.service.SnapshotList(ctx, name, view)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "snapshot %s: %d items\n", snapshot.ID, snapshot.ItemCount)
	return nil
}

func (c *cli) snapshots(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<list>")
	limit, err := opts.Int("--limit")
	if err != nil {
		return fmt.Errorf("--limit: %w", err)
	}

	snapshots, err := c.service.ListSnapshots(ctx, name, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tAGE\tVIEW\tITEMS")
	for _, s := range c.presenter.ToSnapshotSummaries(snapshots) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.Age, s.ViewName, s.ItemCount)
	}
	return w.Flush()
}

func (c *cli) changes(ctx context.Context, opts docopt.Opts) error {
	name, _ := opts.String("<list>")
	diff, err := c.service.CompareWithLatest(ctx, name)
	if err != nil {
		return err
	}
	return c.printJSON(diff)
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func queryOptions(opts docopt.Opts) (sharepoint.QueryOptions, error) {
	queryOpts := sharepoint.DefaultQueryOptions()
	queryOpts.ViewName, _ = opts.String("--view")
	queryOpts.Folder, _ = opts.String("--folder")

	limit, err := opts.Int("--row-limit")
	if err != nil || limit < 0 {
		return queryOpts, fmt.Errorf("--row-limit must be a non-negative integer")
	}
	queryOpts.RowLimit = limit

	if off, _ := opts.Bool("--no-recursive"); off {
		queryOpts.Recursive = false
	}
	if off, _ := opts.Bool("--no-utc"); off {
		queryOpts.DateInUTC = false
	}
	return queryOpts, nil
}
