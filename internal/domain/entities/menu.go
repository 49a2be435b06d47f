package entities

import "sort"

type MenuSection struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	Title     string     `json:"title"`
	SortOrder int        `json:"sort_order"`
	Items     []MenuItem `json:"items"`
}

type MenuItem struct {
	ID          string   `json:"id"`
	SectionID   string   `json:"section_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	DietaryTags []string `json:"dietary_tags"`
	SortOrder   int      `json:"sort_order"`
}

// AssembleMenu nests items under their section. Sections and the items of
// each section come out sorted by SortOrder ascending; ties keep input order.
// Items pointing at an unknown section are dropped. The result is never nil.
func AssembleMenu(sections []MenuSection, items []MenuItem) []MenuSection {
	out := make([]MenuSection, len(sections))
	index := make(map[string]int, len(sections))
	for i, s := range sections {
		s.Items = make([]MenuItem, 0)
		out[i] = s
		index[s.ID] = i
	}
	for _, it := range items {
		i, ok := index[it.SectionID]
		if !ok {
			continue
		}
		if it.DietaryTags == nil {
			it.DietaryTags = []string{}
		}
		out[i].Items = append(out[i].Items, it)
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].SortOrder < out[b].SortOrder })
	for i := range out {
		its := out[i].Items
		sort.SliceStable(its, func(a, b int) bool { return its[a].SortOrder < its[b].SortOrder })
	}
	return out
}
