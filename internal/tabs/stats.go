package tabs

import "sort"

type DomainCount struct {
	Domain  string
	Count   int
	Percent float64
}

type DomainSummary struct {
	Total    int
	Top      []DomainCount
	TopTotal int
}

func (s DomainSummary) TopPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.TopTotal) / float64(s.Total) * 100
}

// DomainStats counts entries per domain and returns the topN most frequent.
// Ties keep first-seen order.
func DomainStats(entries []Entry, topN int) DomainSummary {
	counts := make(map[string]int)
	order := make([]string, 0)
	total := 0
	for _, entry := range entries {
		if entry.Domain == "" {
			continue
		}
		if _, ok := counts[entry.Domain]; !ok {
			order = append(order, entry.Domain)
		}
		counts[entry.Domain]++
		total++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if topN > 0 && len(order) > topN {
		order = order[:topN]
	}

	summary := DomainSummary{Total: total, Top: make([]DomainCount, 0, len(order))}
	for _, domain := range order {
		count := counts[domain]
		summary.Top = append(summary.Top, DomainCount{
			Domain:  domain,
			Count:   count,
			Percent: float64(count) / float64(total) * 100,
		})
		summary.TopTotal += count
	}
	return summary
}
