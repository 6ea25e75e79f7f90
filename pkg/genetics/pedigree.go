package genetics

import (
	"fmt"
	"slices"

	"breedlab/pkg/domain"
)

// FounderGeneration is the generation of a creature with no recorded parents.
const FounderGeneration = 1

// DefaultAncestorDepth bounds ancestor walks during inbreeding checks.
const DefaultAncestorDepth = 10

// IssueKind classifies a pedigree data-integrity problem.
type IssueKind string

const (
	IssueCycle            IssueKind = "cycle"
	IssueDanglingPair     IssueKind = "dangling_pair"
	IssueDuplicateProgeny IssueKind = "duplicate_progeny"
	IssueSelfParent       IssueKind = "self_parent"
)

// IntegrityIssue describes malformed pedigree data that the analyzer worked
// around. Issues are reported, never raised.
type IntegrityIssue struct {
	Kind       IssueKind `json:"kind"`
	CreatureID string    `json:"creature_id,omitempty"`
	PairID     string    `json:"pair_id,omitempty"`
	Message    string    `json:"message"`
}

func (i IntegrityIssue) String() string { return string(i.Kind) + ": " + i.Message }

// Pedigree is an index over pairs and breeding logs. Edges run from a pair's
// parents to the progeny recorded against that pair.
type Pedigree struct {
	pairs         map[string]domain.Pair
	parentPair    map[string]string
	pairsByParent map[string][]string
	progeny       map[string][]string
	issues        []IntegrityIssue
	// involved[i] lists the creatures issues[i] concerns.
	involved [][]string
}

// NewPedigree indexes pairs and logs. Log entries that reference a missing
// pair, list a creature already logged under another pair, or make a creature
// its own parent are skipped and reported through Issues.
func NewPedigree(pairs []domain.Pair, logs []domain.LogEntry) *Pedigree {
	p := &Pedigree{
		pairs:         make(map[string]domain.Pair, len(pairs)),
		parentPair:    make(map[string]string),
		pairsByParent: make(map[string][]string),
		progeny:       make(map[string][]string),
	}
	for _, pair := range pairs {
		if _, dup := p.pairs[pair.ID]; dup {
			continue
		}
		p.pairs[pair.ID] = pair
		for _, parent := range pair.Parents() {
			p.pairsByParent[parent] = append(p.pairsByParent[parent], pair.ID)
		}
	}
	for _, entry := range logs {
		pair, ok := p.pairs[entry.PairID]
		if !ok {
			p.report(IntegrityIssue{
				Kind:    IssueDanglingPair,
				PairID:  entry.PairID,
				Message: fmt.Sprintf("breeding log %s references missing pair %s", entry.ID, entry.PairID),
			}, entry.Progeny()...)
			continue
		}
		for _, child := range entry.Progeny() {
			if child == pair.MaleID || child == pair.FemaleID {
				p.report(IntegrityIssue{
					Kind:       IssueSelfParent,
					CreatureID: child,
					PairID:     pair.ID,
					Message:    fmt.Sprintf("creature %s is logged as progeny of its own pair %s", child, pair.ID),
				}, pair.Parents()...)
				continue
			}
			if existing, seen := p.parentPair[child]; seen {
				if existing != pair.ID {
					p.report(IntegrityIssue{
						Kind:       IssueDuplicateProgeny,
						CreatureID: child,
						PairID:     pair.ID,
						Message:    fmt.Sprintf("creature %s already logged under pair %s, ignoring pair %s", child, existing, pair.ID),
					}, child)
				}
				continue
			}
			p.parentPair[child] = pair.ID
			p.progeny[pair.ID] = append(p.progeny[pair.ID], child)
		}
	}
	return p
}

func (p *Pedigree) report(issue IntegrityIssue, creatures ...string) {
	p.issues = append(p.issues, issue)
	p.involved = append(p.involved, creatures)
}

// Issues returns the integrity issues found while indexing.
func (p *Pedigree) Issues() []IntegrityIssue { return slices.Clone(p.issues) }

// issuesTouching returns the indexing issues that concern at least one
// creature in visited, in indexing order.
func (p *Pedigree) issuesTouching(visited map[string]struct{}) []IntegrityIssue {
	var out []IntegrityIssue
	for i, issue := range p.issues {
		for _, id := range p.involved[i] {
			if _, ok := visited[id]; ok {
				out = append(out, issue)
				break
			}
		}
	}
	return out
}

// Parents returns the recorded parents of id, male first. Founders have none.
func (p *Pedigree) Parents(id string) []string {
	pairID, ok := p.parentPair[id]
	if !ok {
		return nil
	}
	return p.pairs[pairID].Parents()
}

// ParentPair returns the pair that produced id.
func (p *Pedigree) ParentPair(id string) (domain.Pair, bool) {
	pairID, ok := p.parentPair[id]
	if !ok {
		return domain.Pair{}, false
	}
	return p.pairs[pairID], true
}

// GenerationResult is the computed generation of one creature.
type GenerationResult struct {
	Generation int              `json:"generation"`
	Founder    bool             `json:"founder"`
	Issues     []IntegrityIssue `json:"issues,omitempty"`
}

// ComputeGeneration returns the generation of creatureID in the pedigree
// described by pairs and logs.
func ComputeGeneration(creatureID string, pairs []domain.Pair, logs []domain.LogEntry) GenerationResult {
	return NewPedigree(pairs, logs).Generation(creatureID)
}

// Generation returns the generation of id: FounderGeneration when id has no
// progeny log entry, otherwise one more than its oldest-generation parent.
// Each parent is resolved through its own progeny log entry. Resolution is an
// iterative depth-first walk; when a cycle re-enters a creature still being
// resolved, that creature counts as a founder for the offending edge and a
// cycle issue is reported. Indexing issues are included only when they
// concern a creature on the walk.
func (p *Pedigree) Generation(id string) GenerationResult {
	gens, issues := p.generations([]string{id})
	visited := make(map[string]struct{}, len(gens))
	for creature := range gens {
		visited[creature] = struct{}{}
	}
	return GenerationResult{
		Generation: gens[id],
		Founder:    len(p.Parents(id)) == 0,
		Issues:     append(p.issuesTouching(visited), issues...),
	}
}

type generationFrame struct {
	id      string
	parents []string
	next    int
	oldest  int
}

// generations resolves every id in ids, sharing memoized results.
func (p *Pedigree) generations(ids []string) (map[string]int, []IntegrityIssue) {
	memo := make(map[string]int)
	onPath := make(map[string]bool)
	var issues []IntegrityIssue

	for _, root := range ids {
		if _, done := memo[root]; done {
			continue
		}
		stack := []generationFrame{{id: root, parents: p.Parents(root)}}
		onPath[root] = true
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.parents) {
				parent := top.parents[top.next]
				top.next++
				if g, ok := memo[parent]; ok {
					top.oldest = max(top.oldest, g)
					continue
				}
				if onPath[parent] {
					issues = append(issues, IntegrityIssue{
						Kind:       IssueCycle,
						CreatureID: parent,
						Message:    fmt.Sprintf("creature %s is its own ancestor via %s; treated as founder", parent, top.id),
					})
					top.oldest = max(top.oldest, FounderGeneration)
					continue
				}
				onPath[parent] = true
				stack = append(stack, generationFrame{id: parent, parents: p.Parents(parent)})
				continue
			}
			g := FounderGeneration
			if len(top.parents) > 0 {
				g = top.oldest + 1
			}
			memo[top.id] = g
			delete(onPath, top.id)
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parentFrame := &stack[len(stack)-1]
				parentFrame.oldest = max(parentFrame.oldest, g)
			}
		}
	}
	return memo, issues
}

// InbreedingTier classifies how two candidates are related.
type InbreedingTier string

const (
	TierNone           InbreedingTier = "none"
	TierSelf           InbreedingTier = "self"
	TierFullSiblings   InbreedingTier = "full_siblings"
	TierHalfSiblings   InbreedingTier = "half_siblings"
	TierDirectAncestor InbreedingTier = "direct_ancestor"
	TierSharedAncestor InbreedingTier = "shared_ancestor"
	// TierIndeterminate is reported when cyclic data prevents a reliable
	// answer; the result is conservatively marked inbred.
	TierIndeterminate InbreedingTier = "indeterminate"
)

// InbreedingResult is the relationship between two breeding candidates.
type InbreedingResult struct {
	IsInbred        bool             `json:"is_inbred"`
	Tier            InbreedingTier   `json:"tier"`
	CommonAncestors []string         `json:"common_ancestors,omitempty"`
	Issues          []IntegrityIssue `json:"issues,omitempty"`
}

// CheckInbreeding reports whether parentA and parentB are related within
// DefaultAncestorDepth generations.
func CheckInbreeding(parentA, parentB string, logs []domain.LogEntry, pairs []domain.Pair) InbreedingResult {
	return NewPedigree(pairs, logs).Inbreeding(parentA, parentB, DefaultAncestorDepth)
}

// Inbreeding classifies the relationship of a and b. Shared parents are
// checked first (full, then half siblings), then whether one candidate is an
// ancestor of the other, then whether their ancestor sets intersect. Ancestor
// walks stop after maxDepth generations; a non-positive maxDepth uses
// DefaultAncestorDepth. Indexing issues are included only when they concern
// a candidate or one of the ancestors walked.
func (p *Pedigree) Inbreeding(a, b string, maxDepth int) InbreedingResult {
	if maxDepth <= 0 {
		maxDepth = DefaultAncestorDepth
	}
	if a == b {
		issues := p.issuesTouching(map[string]struct{}{a: {}})
		return InbreedingResult{IsInbred: true, Tier: TierSelf, Issues: issues}
	}
	ancestorsA, cyclicA := p.Ancestors(a, maxDepth)
	ancestorsB, cyclicB := p.Ancestors(b, maxDepth)
	common := intersect(ancestorsA, ancestorsB)

	visited := map[string]struct{}{a: {}, b: {}}
	for _, ancestors := range []map[string]int{ancestorsA, ancestorsB} {
		for id := range ancestors {
			visited[id] = struct{}{}
		}
	}
	issues := p.issuesTouching(visited)

	for _, c := range []struct {
		id     string
		cyclic bool
	}{{a, cyclicA}, {b, cyclicB}} {
		if c.cyclic {
			issues = append(issues, IntegrityIssue{
				Kind:       IssueCycle,
				CreatureID: c.id,
				Message:    fmt.Sprintf("creature %s appears among its own ancestors", c.id),
			})
		}
	}
	if cyclicA || cyclicB {
		return InbreedingResult{IsInbred: true, Tier: TierIndeterminate, CommonAncestors: common, Issues: issues}
	}

	result := InbreedingResult{IsInbred: true, CommonAncestors: common, Issues: issues}
	parentsA, parentsB := p.Parents(a), p.Parents(b)
	shared := 0
	for _, parent := range parentsA {
		if slices.Contains(parentsB, parent) {
			shared++
		}
	}
	_, aIsAncestor := ancestorsB[a]
	_, bIsAncestor := ancestorsA[b]
	switch {
	case shared == 2:
		result.Tier = TierFullSiblings
	case shared == 1:
		result.Tier = TierHalfSiblings
	case aIsAncestor || bIsAncestor:
		result.Tier = TierDirectAncestor
	case len(common) > 0:
		result.Tier = TierSharedAncestor
	default:
		result.IsInbred = false
		result.Tier = TierNone
	}
	return result
}

// Ancestors walks parent edges upward from id, breadth first, for at most
// maxDepth generations. It returns each ancestor with the depth at which it
// was first reached, and whether id was found among its own ancestors.
func (p *Pedigree) Ancestors(id string, maxDepth int) (map[string]int, bool) {
	type queueItem struct {
		id    string
		depth int
	}
	seen := make(map[string]int)
	cyclic := false
	queue := []queueItem{{id: id}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		if item.depth >= maxDepth {
			continue
		}
		for _, parent := range p.Parents(item.id) {
			if parent == id {
				cyclic = true
				continue
			}
			if _, ok := seen[parent]; ok {
				continue
			}
			seen[parent] = item.depth + 1
			queue = append(queue, queueItem{id: parent, depth: item.depth + 1})
		}
	}
	return seen, cyclic
}

func intersect(a, b map[string]int) []string {
	var out []string
	for id := range a {
		if _, ok := b[id]; ok {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// UpdateDescendantGenerations returns every descendant of startCreatureID in
// breadth-first order, excluding the start itself. These are the creatures
// whose generation must be recomputed after an ancestry edit.
func UpdateDescendantGenerations(startCreatureID string, pairs []domain.Pair, logs []domain.LogEntry) []string {
	return NewPedigree(pairs, logs).Descendants(startCreatureID)
}

// Descendants walks forward from start: creature, to the pairs it parents, to
// the progeny logged for those pairs. A processed set guarantees termination
// on cyclic data.
func (p *Pedigree) Descendants(start string) []string {
	processed := map[string]struct{}{start: {}}
	out := []string{}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, pairID := range p.pairsByParent[current] {
			for _, child := range p.progeny[pairID] {
				if _, done := processed[child]; done {
					continue
				}
				processed[child] = struct{}{}
				out = append(out, child)
				queue = append(queue, child)
			}
		}
	}
	return out
}

// RecomputeGenerations returns the fresh generation of every descendant of
// start, plus any integrity issues hit while resolving them.
func (p *Pedigree) RecomputeGenerations(start string) (map[string]int, []IntegrityIssue) {
	descendants := p.Descendants(start)
	gens, issues := p.generations(descendants)
	out := make(map[string]int, len(descendants))
	visited := map[string]struct{}{start: {}}
	for id := range gens {
		visited[id] = struct{}{}
	}
	for _, id := range descendants {
		out[id] = gens[id]
	}
	return out, append(p.issuesTouching(visited), issues...)
}
