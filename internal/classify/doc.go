// Package classify assigns a (category, subcategory) pair to a line item
// from its free-text fields.
//
// Classification is a pure function of three optional strings: product
// title, product type and variant title. The fields are joined into one
// lower-cased search string and tested in three stages:
//
//  1. Bundle pre-check: "combo", "pack" or "kit" routes the item to the
//     bundle category, with a subcategory picked by secondary keywords.
//  2. Rule table: the ordered rules are scanned and the first rule with a
//     keyword present in the search string wins.
//  3. Fallback: "Otros" with the raw product type, or "Sin categoría".
//
// Matching is plain substring containment. Rule order is part of the
// contract; reordering rules changes results for items matching several.
package classify
