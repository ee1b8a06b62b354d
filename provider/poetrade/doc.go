// Package poetrade provides the currency.poe.trade conversion offer provider.
//
// # Acquisition
//
// URL: http://currency.poe.trade/search
// Query: league, want (marketplace id), have (marketplace id), online=true
//
// A single GET request is issued per (want, have) pair. Transport failures
// and non-2xx responses are returned as an *AcquisitionError, and are not
// retried.
//
// # Listings
//
// Every element with the "displayoffer" class is a listing fragment, carrying:
//
//	data-stock      units available (integer)
//	data-sellvalue  amount of the wanted currency
//	data-buyvalue   amount of the offered currency
//	data-ign        the offering party
//
// Fragments without data-stock are inactive and skipped silently. Fragments
// with stock, but with unparseable or degenerate values (zero buy value),
// are a *MalformedOfferError: logged and skipped by default, or fatal to the
// acquisition with WithStrictParsing.
//
// The conversion rate is sellvalue / buyvalue, rounded to 4 decimal places.
//
// # Filtering
//
// Only the first 5 parsed offers are kept (the marketplace lists the best
// offers first), and these are then run through the tier viability filter.
package poetrade
