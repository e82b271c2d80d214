package model

import "fmt"

// ChangeType represents the kind of tab change detected.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"
	ChangeRemoved ChangeType = "removed"
	ChangeChanged ChangeType = "changed"
)

// TabChange represents a single change between two layouts.
type TabChange struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	ID      TabID                `yaml:"id"                json:"id"`
	URL     string               `yaml:"url,omitempty"     json:"url,omitempty"`
	Window  WindowID             `yaml:"window,omitempty"  json:"window,omitempty"`
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"` // For changed: field diffs
}

// DiffTabs compares the tabs of two window layouts and returns the changes,
// in the tab order of curr followed by removals in the order of prev. Tabs
// are matched by id, so a reopened tab shows as removed plus added.
func DiffTabs(prev, curr []Window) []TabChange {
	prevTabs := flattenTabs(prev)
	currTabs := flattenTabs(curr)
	prevMap := make(map[TabID]Tab, len(prevTabs))
	for _, t := range prevTabs {
		prevMap[t.ID] = t
	}
	currMap := make(map[TabID]Tab, len(currTabs))
	for _, t := range currTabs {
		currMap[t.ID] = t
	}

	var changes []TabChange
	for _, t := range currTabs {
		prevTab, existed := prevMap[t.ID]
		if !existed {
			changes = append(changes, TabChange{Type: ChangeAdded, ID: t.ID, URL: t.URL, Window: t.WindowID})
			continue
		}
		if diffs := diffTab(prevTab, t); len(diffs) > 0 {
			changes = append(changes, TabChange{Type: ChangeChanged, ID: t.ID, Changes: diffs})
		}
	}
	for _, t := range prevTabs {
		if _, exists := currMap[t.ID]; !exists {
			changes = append(changes, TabChange{Type: ChangeRemoved, ID: t.ID, URL: t.URL, Window: t.WindowID})
		}
	}
	return changes
}

func flattenTabs(windows []Window) []Tab {
	var out []Tab
	for _, w := range windows {
		out = append(out, w.Tabs...)
	}
	return out
}

// diffTab compares two versions of a tab and returns changed fields.
func diffTab(prev, curr Tab) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.WindowID != curr.WindowID {
		diffs["window"] = [2]string{fmt.Sprint(prev.WindowID), fmt.Sprint(curr.WindowID)}
	}
	if prev.Index != curr.Index {
		diffs["index"] = [2]string{fmt.Sprint(prev.Index), fmt.Sprint(curr.Index)}
	}
	if prev.Active != curr.Active {
		diffs["active"] = [2]string{fmt.Sprint(prev.Active), fmt.Sprint(curr.Active)}
	}
	if prev.Highlighted != curr.Highlighted {
		diffs["highlighted"] = [2]string{fmt.Sprint(prev.Highlighted), fmt.Sprint(curr.Highlighted)}
	}
	if prev.Pinned != curr.Pinned {
		diffs["pinned"] = [2]string{fmt.Sprint(prev.Pinned), fmt.Sprint(curr.Pinned)}
	}
	if prev.URL != curr.URL {
		diffs["url"] = [2]string{prev.URL, curr.URL}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
