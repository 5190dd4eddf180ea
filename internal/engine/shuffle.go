package engine

import "fmt"

// Shuffle permutes s in place with the Fisher-Yates algorithm. Walking i from
// the end, element i is swapped with a uniform j in [0, i], so each of the n!
// orderings is equally likely when src is uniform.
func Shuffle[T any](s []T, src *Source) error {
	for i := len(s) - 1; i > 0; i-- {
		j, err := src.Intn(i + 1)
		if err != nil {
			return fmt.Errorf("shuffle: %w", err)
		}
		s[i], s[j] = s[j], s[i]
	}
	return nil
}
