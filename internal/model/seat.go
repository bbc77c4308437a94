package model

// CabinClass orders cabins from most to least premium.  The ordinal
// values matter: a lower value means a more premium cabin, so
// comparisons such as "most premium seat on this itinerary" can be
// done directly on the underlying integer.
type CabinClass uint8

const (
    CabinFirst    CabinClass = iota // first class, most premium
    CabinBusiness                   // business class
    CabinEconomy                    // economy class, least premium
)

// String returns the human readable cabin name.  Unknown values map
// to "ECONOMY" so that a corrupt row never renders an empty class.
func (c CabinClass) String() string {
    switch c {
    case CabinFirst:
        return "FIRST"
    case CabinBusiness:
        return "BUSINESS"
    }
    return "ECONOMY"
}

// MorePremiumThan reports whether c outranks other.  First outranks
// Business outranks Economy.
func (c CabinClass) MorePremiumThan(other CabinClass) bool {
    return c < other
}

// Valid reports whether c is one of the three known cabins.
func (c CabinClass) Valid() bool {
    return c <= CabinEconomy
}

// Seat describes one abstract seat position inside an aircraft seat
// layout.  Seats are templates: every schedule of a flight that uses
// the parent layout shares the same seat rows.  Templates are
// immutable once created and never deleted while a layout references
// them.
//
// Fields:
//  ID            – primary key identifier.
//  SeatLayoutID  – layout to which this seat belongs.
//  RowNumber     – physical row, 1-based.
//  ColLetter     – column letter within the row (A, B, C...).
//  Label         – composite label shown to passengers, e.g. "12A".
//  CabinClass    – cabin the seat belongs to.
//  IsExitRow     – whether the seat sits on an exit row.
//  IsPremium     – whether the seat is sold as premium.
//  PriceModifier – optional surcharge in cents on top of the base fare.
type Seat struct {
    ID            uint64     // seats.id
    SeatLayoutID  uint64     // seats.seat_layout_id
    RowNumber     uint32     // seats.row_num
    ColLetter     string     // seats.col_letter
    Label         string     // seats.label
    CabinClass    CabinClass // seats.cabin_class
    IsExitRow     bool       // seats.is_exit_row
    IsPremium     bool       // seats.is_premium
    PriceModifier *uint32    // seats.price_modifier (nullable, cents)
}
