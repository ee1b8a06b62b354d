package poetrade

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/sig-0/flip/storage/types"
)

// offerSelector matches the listing fragments on the search page
const offerSelector = ".displayoffer"

const (
	attrStock     = "data-stock"
	attrSellValue = "data-sellvalue"
	attrBuyValue  = "data-buyvalue"
	attrContact   = "data-ign"
)

// ratePrecision is the number of decimal places kept for conversion rates
const ratePrecision = 4

// ParseOffer parses a single listing fragment into a conversion offer.
// Fragments without stock are inactive, and yield (nil, nil).
// The returned offer has no want, have or league set
func ParseOffer(sel *goquery.Selection) (*types.ConversionOffer, error) {
	stockRaw, ok := sel.Attr(attrStock)
	if !ok {
		return nil, nil //nolint:nilnil // inactive listing
	}

	stock, err := strconv.ParseInt(strings.TrimSpace(stockRaw), 10, 64)
	if err != nil {
		return nil, malformed(attrStock, stockRaw, err)
	}

	if stock < 0 {
		return nil, malformed(attrStock, stockRaw, errNegativeStock)
	}

	sell, err := parseValue(sel, attrSellValue)
	if err != nil {
		return nil, err
	}

	buy, err := parseValue(sel, attrBuyValue)
	if err != nil {
		return nil, err
	}

	contact, ok := sel.Attr(attrContact)
	if !ok || strings.TrimSpace(contact) == "" {
		return nil, malformed(attrContact, contact, errMissingAttribute)
	}

	// Half away from zero, on the exact quotient
	rate := sell.Div(buy).Round(ratePrecision)
	if !rate.IsPositive() {
		return nil, malformed(attrSellValue, sell.String(), errDegenerateRate)
	}

	rateF, _ := rate.Float64()

	return &types.ConversionOffer{
		Contact: strings.TrimSpace(contact),
		Rate:    rateF,
		Stock:   stock,
	}, nil
}

// parseValue parses the given sell / buy value attribute
func parseValue(sel *goquery.Selection, attr string) (decimal.Decimal, error) {
	raw, ok := sel.Attr(attr)
	if !ok {
		return decimal.Zero, malformed(attr, "", errMissingAttribute)
	}

	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, malformed(attr, raw, err)
	}

	if v.IsZero() && attr == attrBuyValue {
		return decimal.Zero, malformed(attr, raw, errZeroBuyValue)
	}

	if !v.IsPositive() {
		return decimal.Zero, malformed(attr, raw, errNonPositiveValue)
	}

	return v, nil
}

func malformed(attr, value string, err error) *MalformedOfferError {
	return &MalformedOfferError{
		Attribute: attr,
		Value:     value,
		Err:       err,
	}
}
