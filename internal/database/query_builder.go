// Travia - Travel Itinerary Personalization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/travia

package database

import (
	"fmt"
	"strings"

	"github.com/tomtom215/travia/internal/recommend"
	"github.com/tomtom215/travia/internal/recommend/selection"
)

// buildInClause builds a parameterized IN list.
func buildInClause[T any](items []T) (string, []interface{}) {
	placeholders := make([]string, len(items))
	args := make([]interface{}, len(items))
	for i, item := range items {
		placeholders[i] = "?"
		args[i] = item
	}
	return strings.Join(placeholders, ","), args
}

// flagColumns maps ambience attribute names to business columns. Only
// these names may reach generated SQL.
var flagColumns = map[string]string{
	recommend.AttrRomantic:    "b.romantic",
	recommend.AttrGoodForKids: "b.good_for_kids",
	recommend.AttrClassy:      "b.classy",
	recommend.AttrCasual:      "b.casual",
}

// likeEscaper escapes LIKE wildcards in user-supplied values.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// cuisinePattern matches one JSON-encoded cuisine inside the cuisines
// column, which always holds a lower-cased comparison target.
func cuisinePattern(cuisine string) string {
	return `%"` + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(cuisine))) + `"%`
}

// cuisineCondition returns an OR of cuisine matches, or "" when cuisines
// is empty. A list of only blank names matches nothing.
func cuisineCondition(cuisines []string) (string, []interface{}) {
	if len(cuisines) == 0 {
		return "", nil
	}
	var parts []string
	var args []interface{}
	for c := range recommend.NormalizeSet(cuisines) {
		parts = append(parts, `lower(b.cuisines) LIKE ? ESCAPE '\'`)
		args = append(args, cuisinePattern(c))
	}
	if len(parts) == 0 {
		return "(FALSE)", nil
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}

// flagCondition returns an OR of ambience columns, or "" when flags is
// empty. Unknown attribute names match nothing.
func flagCondition(flags []string) string {
	if len(flags) == 0 {
		return ""
	}
	var parts []string
	seen := make(map[string]bool, len(flags))
	for _, f := range flags {
		col, ok := flagColumns[f]
		if !ok || seen[col] {
			continue
		}
		seen[col] = true
		parts = append(parts, col)
	}
	if len(parts) == 0 {
		return "(FALSE)"
	}
	return "(" + strings.Join(parts, " OR ") + ")"
}

// buildBusinessQuery translates a selection query into SQL. Every
// condition is parameterized; column names come only from fixed tables.
func buildBusinessQuery(q *selection.Query) (string, []interface{}) {
	conditions := []string{
		"lower(trim(b.locality)) = lower(trim(?))",
		"trim(b.name) <> ''",
	}
	args := []interface{}{q.Locality}

	if q.MinStars > 0 {
		conditions = append(conditions, "(b.stars IS NULL OR b.stars >= ?)")
		args = append(args, q.MinStars)
	}

	if cond, cargs := cuisineCondition(q.NoCuisine); cond != "" {
		conditions = append(conditions, "NOT "+cond)
		args = append(args, cargs...)
	}

	cuisineCond, cuisineArgs := cuisineCondition(q.AnyCuisine)
	flagCond := flagCondition(q.AnyFlag)
	switch {
	case q.EitherCuisineOrFlag && cuisineCond != "" && flagCond != "":
		conditions = append(conditions, "("+cuisineCond+" OR "+flagCond+")")
		args = append(args, cuisineArgs...)
	default:
		if cuisineCond != "" {
			conditions = append(conditions, cuisineCond)
			args = append(args, cuisineArgs...)
		}
		if flagCond != "" {
			conditions = append(conditions, flagCond)
		}
	}

	if q.PriceNear != nil {
		conditions = append(conditions, fmt.Sprintf("abs(COALESCE(b.price_range, %d) - ?) <= ?", int(selection.NullPrice)))
		args = append(args, *q.PriceNear, q.PriceTolerance)
	}
	if q.StarsNear != nil {
		conditions = append(conditions, fmt.Sprintf("abs(COALESCE(b.stars, %.1f) - ?) <= ?", selection.NullStars))
		args = append(args, *q.StarsNear, q.StarsTolerance)
	}

	if q.ExcludeInteractedBy != 0 {
		conditions = append(conditions, "b.id NOT IN (SELECT business_id FROM user_interactions WHERE user_id = ?)")
		args = append(args, q.ExcludeInteractedBy)
	}
	if len(q.ExcludeIDs) > 0 {
		in, inArgs := buildInClause(q.ExcludeIDs)
		conditions = append(conditions, "b.id NOT IN ("+in+")")
		args = append(args, inArgs...)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(businessColumns)
	sb.WriteString(" FROM businesses b WHERE ")
	sb.WriteString(strings.Join(conditions, " AND "))

	switch q.Order {
	case selection.OrderRandom:
		sb.WriteString(" ORDER BY random()")
	default:
		sb.WriteString(" ORDER BY b.stars DESC NULLS LAST, b.review_count DESC, b.id")
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}
	return sb.String(), args
}
