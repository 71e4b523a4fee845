package analyzer

import "strings"

// defaultStopWords is the English stop-word set used for keyword filtering.
// Kept as a constructor so each SegmenterConfig owns its own map.
func defaultStopWords() map[string]bool {
	words := strings.Fields(`
		the and for are but not you all can had her was one our out day get
		has him his how its may new now old see two who did man way she use
		many oil sit set run eat far sea eye ask own say too any try let put
		end why turn here show every good give under name very through just
		form sentence great think where help much before move right means
		same tell follow came want also around farm three small does another
		well large must big even such because went men read need land
		different home kind hand picture again change off play spell air
		away animal house point page letter mother answer found study still
		learn should america world this that with from they have been were
		will what when which their there these those then than some more
		most other into only over such each both about would could between`)

	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
