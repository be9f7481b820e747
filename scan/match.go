package scan

import (
	"fmt"
	"regexp"
	"strings"
)

// Match представляет одно совпадение именованной группы в выводе сканера.
type Match struct {
	// Name содержит имя группы из шаблона, например "family".
	Name string

	// Text содержит совпавший фрагмент.
	Text string
}

// EachMatch прогоняет по тексту набор шаблонов с именованными группами
// и возвращает совпадения в порядке их появления. Шаблоны объединяются
// через "|" и компилируются в многострочном режиме, так что ^ и $
// работают построчно.
//
// При inOrder совпадения обязаны идти в порядке перечисления шаблонов:
// совпадение группы, стоящей в шаблоне раньше последней сработавшей,
// пропускается. Так разбирается вывод сканеров с фиксированным порядком
// полей, где раннее поле не может встретиться после позднего.
func EachMatch(s string, patterns []string, inOrder bool) ([]Match, error) {
	re, err := regexp.Compile("(?m)" + strings.Join(patterns, "|"))
	if err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}

	names := re.SubexpNames()
	last := -1

	var matches []Match
	for _, sub := range re.FindAllStringSubmatchIndex(s, -1) {
		for gi := 1; gi < len(names); gi++ {
			if names[gi] == "" || sub[2*gi] < 0 {
				continue
			}
			if inOrder {
				if gi < last {
					continue
				}
				last = gi
			}
			matches = append(matches, Match{Name: names[gi], Text: s[sub[2*gi]:sub[2*gi+1]]})
		}
	}
	return matches, nil
}
