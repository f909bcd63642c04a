package reconcile

import (
	"errors"

	"ads-reconciler/core/manifest"
	"ads-reconciler/core/normalize"
	"ads-reconciler/core/snapshot"
)

// ErrNilSnapshot is returned when Reconcile is called without a snapshot.
var ErrNilSnapshot = errors.New("reconcile requires a snapshot")

// binding is the memoized outcome of one natural-key lookup.
type binding struct {
	id         string
	reason     Reason
	candidates int
}

func (b binding) matched() bool {
	return b.reason == ""
}

func (b binding) idPtr() *string {
	if !b.matched() {
		return nil
	}
	id := b.id
	return &id
}

func bindCandidates(n int, id func() string) binding {
	switch {
	case n == 0:
		return binding{reason: ReasonNotFound}
	case n > 1:
		return binding{reason: ReasonAmbiguous, candidates: n}
	default:
		return binding{id: id(), candidates: 1}
	}
}

type adGroupKey struct {
	campaign string
	adGroup  string
}

// matcher resolves natural keys against one snapshot. Every campaign and ad
// group key is looked up once per manifest, whether the manifest describes it
// or only references it as a parent.
type matcher struct {
	snap      *snapshot.Snapshot
	campaigns map[string]binding
	adGroups  map[adGroupKey]binding
}

func newMatcher(snap *snapshot.Snapshot) *matcher {
	return &matcher{
		snap:      snap,
		campaigns: make(map[string]binding),
		adGroups:  make(map[adGroupKey]binding),
	}
}

func (m *matcher) campaign(name string) binding {
	key := normalize.Name(name)
	if b, ok := m.campaigns[key]; ok {
		return b
	}
	rows := m.snap.CampaignsByName(key)
	b := bindCandidates(len(rows), func() string { return rows[0].CampaignID })
	m.campaigns[key] = b
	return b
}

// adGroup resolves an ad group inside its campaign. The campaign binding is
// returned as well so callers can report it.
func (m *matcher) adGroup(campaignName, adGroupName string) (binding, binding) {
	parent := m.campaign(campaignName)
	key := adGroupKey{campaign: normalize.Name(campaignName), adGroup: normalize.Name(adGroupName)}
	if b, ok := m.adGroups[key]; ok {
		return parent, b
	}

	var b binding
	if !parent.matched() {
		b = binding{reason: ReasonParentUnmatched}
	} else {
		rows := m.snap.AdGroupsByName(parent.id, key.adGroup)
		b = bindCandidates(len(rows), func() string { return rows[0].AdGroupID })
	}
	m.adGroups[key] = b
	return parent, b
}

// Reconcile matches every entity of m against snap. A structurally invalid
// manifest returns a *manifest.StructuralError before any matching happens.
// Unmatched entities are reported in the result, never as errors.
func Reconcile(m *manifest.Manifest, snap *snapshot.Snapshot) (*Result, error) {
	if err := manifest.Validate(m); err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, ErrNilSnapshot
	}

	mt := newMatcher(snap)
	res := &Result{
		Campaigns:  make([]CampaignMatch, 0, len(m.Campaigns)),
		AdGroups:   make([]AdGroupMatch, 0, len(m.AdGroups)),
		ProductAds: make([]ProductAdMatch, 0, len(m.ProductAds)),
		Keywords:   make([]KeywordMatch, 0, len(m.Keywords)),
	}

	for _, c := range m.Campaigns {
		b := mt.campaign(c.Name)
		res.Campaigns = append(res.Campaigns, CampaignMatch{
			Name:       c.Name,
			TempID:     string(c.TempID),
			Matched:    b.matched(),
			CampaignID: b.idPtr(),
			Reason:     b.reason,
			Candidates: b.candidates,
		})
		res.Counts.Campaigns.add(b.matched())
	}

	for _, ag := range m.AdGroups {
		parent, b := mt.adGroup(ag.CampaignName, ag.AdGroupName)
		res.AdGroups = append(res.AdGroups, AdGroupMatch{
			CampaignName: ag.CampaignName,
			AdGroupName:  ag.AdGroupName,
			TempID:       string(ag.TempID),
			Matched:      b.matched(),
			CampaignID:   parent.idPtr(),
			AdGroupID:    b.idPtr(),
			Reason:       b.reason,
			Candidates:   b.candidates,
		})
		res.Counts.AdGroups.add(b.matched())
	}

	for _, kw := range m.Keywords {
		_, parent := mt.adGroup(kw.CampaignName, kw.AdGroupName)
		var b binding
		if !parent.matched() {
			b = binding{reason: ReasonParentUnmatched}
		} else {
			rows := snap.TargetsByExpression(parent.id, normalize.Name(kw.KeywordText), normalize.MatchType(kw.MatchType))
			b = bindCandidates(len(rows), func() string { return rows[0].TargetID })
		}
		res.Keywords = append(res.Keywords, KeywordMatch{
			CampaignName: kw.CampaignName,
			AdGroupName:  kw.AdGroupName,
			KeywordText:  kw.KeywordText,
			MatchType:    kw.MatchType,
			Matched:      b.matched(),
			KeywordID:    b.idPtr(),
			AdGroupID:    parent.idPtr(),
			Reason:       b.reason,
			Candidates:   b.candidates,
		})
		res.Counts.Keywords.add(b.matched())
	}

	for _, pa := range m.ProductAds {
		_, parent := mt.adGroup(pa.CampaignName, pa.AdGroupName)
		match := ProductAdMatch{
			CampaignName: pa.CampaignName,
			AdGroupName:  pa.AdGroupName,
			SKU:          pa.SKU,
			ASIN:         pa.ASIN,
			Matched:      parent.matched(),
			AdGroupID:    parent.idPtr(),
		}
		if parent.matched() {
			match.Confirmation = ConfirmationParentAdGroup
			match.Note = productAdNote
			res.ParentOnlyConfirmations++
		} else {
			match.Reason = ReasonParentUnmatched
		}
		res.ProductAds = append(res.ProductAds, match)
		res.Counts.ProductAds.add(match.Matched)
	}

	for _, c := range []Count{res.Counts.Campaigns, res.Counts.AdGroups, res.Counts.ProductAds, res.Counts.Keywords} {
		res.Counts.Total.Expected += c.Expected
		res.Counts.Total.Matched += c.Matched
	}
	res.AllMatched = res.Counts.Total.Expected > 0 && res.Counts.Total.Expected == res.Counts.Total.Matched

	return res, nil
}

// ReconcileBytes parses raw manifest JSON and reconciles it.
func ReconcileBytes(data []byte, snap *snapshot.Snapshot) (*Result, error) {
	m, err := manifest.Parse(data)
	if err != nil {
		return nil, err
	}
	return Reconcile(m, snap)
}
