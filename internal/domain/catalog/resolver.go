package catalog

import "context"

// ResolveCategoryID walks a product's linkage up to its ancestor category:
// direct category_id first, then subcategory -> category, then
// group -> subcategory -> category. The second return is false when the
// product is not linked to the hierarchy at all.
//
// This resolver exists for display purposes (admin detail views, "belongs
// to" columns). The deletion workflow intentionally gates on the direct
// category_id column only, matching how the data was written; products
// linked solely through a subcategory or group are untouched by a category
// delete.
func ResolveCategoryID(ctx context.Context, s Store, p *Product) (int64, bool, error) {
	if p.CategoryID != nil {
		return *p.CategoryID, true, nil
	}

	if p.SubcategoryID != nil {
		sub, err := s.GetSubcategoryByID(ctx, *p.SubcategoryID)
		if err != nil {
			return 0, false, err
		}
		return sub.CategoryID, true, nil
	}

	if p.GroupID != nil {
		grp, err := s.GetGroupByID(ctx, *p.GroupID)
		if err != nil {
			return 0, false, err
		}
		sub, err := s.GetSubcategoryByID(ctx, grp.SubcategoryID)
		if err != nil {
			return 0, false, err
		}
		return sub.CategoryID, true, nil
	}

	return 0, false, nil
}
