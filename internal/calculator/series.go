package calculator

import "ChartSentinel/internal/model"

// Apply fills every derived column of s from its bars. Pivots are not set
// here because they belong to the display window, not the warm-up window.
func Apply(s *model.Series, donchianWindow int) {
	closes := s.Closes()
	s.RSI = RSISeries(closes, RSIPeriod)
	s.SMA20 = SMASeries(closes, ShortMAPeriod)
	s.SMA50 = SMASeries(closes, MidMAPeriod)
	s.SMA200 = SMA200Series(closes)

	ch := Donchian(s.Highs(), s.Lows(), donchianWindow)
	s.DonchianUpper = ch.Upper
	s.DonchianLower = ch.Lower
	s.DonchianMiddle = ch.Middle
}
