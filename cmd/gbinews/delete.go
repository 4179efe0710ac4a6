package main

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"github.com/fwojciec/gbinews"
	"github.com/spf13/afero"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	ids, err := c.collectIDs(deps.FS)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(deps.Stderr, "error: no IDs provided. Use --ids or --from-file.")
		return gbinews.Errorf(gbinews.EINVALID, "no IDs provided")
	}

	deleted, err := deps.Articles.DeleteArticles(deps.Ctx, ids)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", gbinews.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Deleted %d row(s) from DB.\n", deleted)

	if c.NoExport {
		return nil
	}
	return exportSnapshot(deps)
}

// collectIDs merges --ids and --from-file, dropping blanks and duplicates
// while keeping the first occurrence order.
func (c *DeleteCmd) collectIDs(fs afero.Fs) ([]string, error) {
	var raw []string
	if c.IDs != "" {
		raw = append(raw, strings.Split(c.IDs, ",")...)
	}
	if c.FromFile != "" {
		if fs == nil {
			fs = afero.NewOsFs()
		}
		b, err := afero.ReadFile(fs, c.FromFile)
		if err != nil {
			return nil, gbinews.Errorf(gbinews.EINVALID, "cannot read %s: %v", c.FromFile, err)
		}
		sc := bufio.NewScanner(bytes.NewReader(b))
		for sc.Scan() {
			raw = append(raw, sc.Text())
		}
		if err := sc.Err(); err != nil {
			return nil, gbinews.Errorf(gbinews.EINVALID, "cannot read %s: %v", c.FromFile, err)
		}
	}

	var ids []string
	seen := make(map[string]bool)
	for _, id := range raw {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	return ids, nil
}
