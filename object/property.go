package object

// PropertyID draws from the fixed parameter enum spec §3 describes
// (visibility, position, per-slot adjustment offsets/alphas, origin,
// rotation, pattern number, alpha, clipping rects, tint, composite mode,
// z-order/z-layer/z-depth, text/drift/digit/button property structs,
// wipe-copy, ...). Sub-slotted properties (adjustment pairs, per-repno
// alphas) are distinguished by paramstore.Key.SubName rather than by a
// separate PropertyID per slot.
type PropertyID int

const (
	PropVisible PropertyID = iota
	PropX
	PropY
	PropXOrigin
	PropYOrigin
	PropRotation
	PropPatternNumber
	PropAlpha
	PropClipLeft
	PropClipTop
	PropClipRight
	PropClipBottom
	PropTintRed
	PropTintGreen
	PropTintBlue
	PropCompositeMode
	PropZOrder
	PropZLayer
	PropZDepth
	PropAdjustX
	PropAdjustY
	PropAdjustAlpha
	PropTextString
	PropDriftSpeed
	PropDigitValue
	PropButtonState
	PropWipeCopy
	PropScrollX
	PropScrollY
	PropMonochrome
	PropInvert
	PropMosaic
	PropBlur
)
