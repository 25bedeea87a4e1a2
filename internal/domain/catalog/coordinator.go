package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bazaar/internal/metrics"
)

var (
	ErrReassignIntoSelf       = errors.New("cannot reassign products to the category being deleted")
	ErrReassignTargetNotFound = errors.New("reassignment target does not exist")
)

// DeleteOptions selects the policy for removing an entity that still has
// linked products. With neither flag set, a delete against a populated
// entity is refused (soft failure, see DeleteOutcome.HasProducts).
// ReassignTo wins when both are set.
type DeleteOptions struct {
	ForceDelete bool
	ReassignTo  *int64
}

// DeleteOutcome reports what a delete did. HasProducts=true with
// Deleted=false is the soft refusal: products are linked and the caller set
// no policy, so nothing was mutated and the caller should re-prompt.
type DeleteOutcome struct {
	Deleted              bool
	HasProducts          bool
	ProductCount         int
	ProductsReassigned   int64
	ProductsRemoved      int64
	SubcategoriesRemoved int64
	GroupsRemoved        int64
}

// Coordinator orchestrates hierarchy deletions. The linkage pre-check runs
// outside the transaction (a failed check aborts before any mutation); the
// cascade itself runs inside one transaction, so a mid-sequence store error
// rolls everything back instead of leaving the tree half-deleted.
type Coordinator struct {
	store Store
}

func NewCoordinator(s Store) *Coordinator {
	return &Coordinator{store: s}
}

// DeleteCategory removes a category and cascades to its subcategories and
// their groups. Products referencing the category directly are handled per
// opts: reassigned to another category, force-deleted, or — with no policy —
// the whole operation is refused with a populated outcome.
//
// Deleting an id that no longer exists returns ErrCategoryNotFound; a repeat
// delete is never a silent success.
func (c *Coordinator) DeleteCategory(ctx context.Context, id int64, opts DeleteOptions) (*DeleteOutcome, error) {
	// Existence-only check first; the exact count is only fetched when the
	// delete is about to be refused and the caller needs it to re-prompt.
	has, err := c.store.HasProductsInCategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("linkage check: %w", err)
	}

	if has && !opts.ForceDelete && opts.ReassignTo == nil {
		count, err := c.store.CountProductsInCategory(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("linkage count: %w", err)
		}
		return &DeleteOutcome{HasProducts: true, ProductCount: count}, nil
	}

	if opts.ReassignTo != nil {
		if *opts.ReassignTo == id {
			return nil, ErrReassignIntoSelf
		}
		if _, err := c.store.GetCategoryByID(ctx, *opts.ReassignTo); err != nil {
			if errors.Is(err, ErrCategoryNotFound) {
				return nil, ErrReassignTargetNotFound
			}
			return nil, fmt.Errorf("validate reassignment target: %w", err)
		}
	}

	out := &DeleteOutcome{}

	defer metrics.TrackDBOperation("delete_category")(time.Now())
	err = c.store.WithTx(ctx, func(tx Store) error {
		// Products first: they can reference the category directly,
		// independent of the subcategory tree.
		if opts.ReassignTo != nil {
			n, err := tx.ReassignProductsByCategory(ctx, id, *opts.ReassignTo)
			if err != nil {
				return err
			}
			out.ProductsReassigned = n
		} else if opts.ForceDelete {
			n, err := tx.DeleteProductsByCategory(ctx, id)
			if err != nil {
				return err
			}
			out.ProductsRemoved = n
		}

		// Children before parents: groups, then subcategories, then the
		// category row itself.
		groups, err := tx.DeleteGroupsByCategory(ctx, id)
		if err != nil {
			return err
		}
		out.GroupsRemoved = groups

		subs, err := tx.DeleteSubcategoriesByCategory(ctx, id)
		if err != nil {
			return err
		}
		out.SubcategoriesRemoved = subs

		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	out.Deleted = true
	return out, nil
}

// DeleteSubcategory mirrors DeleteCategory one level down: the linkage check
// runs against products' subcategory_id, reassignment targets another
// subcategory, and the cascade covers the subcategory's groups.
func (c *Coordinator) DeleteSubcategory(ctx context.Context, id int64, opts DeleteOptions) (*DeleteOutcome, error) {
	count, err := c.store.CountProductsInSubcategory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("linkage check: %w", err)
	}

	if count > 0 && !opts.ForceDelete && opts.ReassignTo == nil {
		return &DeleteOutcome{HasProducts: true, ProductCount: count}, nil
	}

	if opts.ReassignTo != nil {
		if *opts.ReassignTo == id {
			return nil, ErrReassignIntoSelf
		}
		if _, err := c.store.GetSubcategoryByID(ctx, *opts.ReassignTo); err != nil {
			if errors.Is(err, ErrSubcategoryNotFound) {
				return nil, ErrReassignTargetNotFound
			}
			return nil, fmt.Errorf("validate reassignment target: %w", err)
		}
	}

	out := &DeleteOutcome{ProductCount: count}

	defer metrics.TrackDBOperation("delete_subcategory")(time.Now())
	err = c.store.WithTx(ctx, func(tx Store) error {
		if opts.ReassignTo != nil {
			n, err := tx.ReassignProductsBySubcategory(ctx, id, *opts.ReassignTo)
			if err != nil {
				return err
			}
			out.ProductsReassigned = n
		} else if opts.ForceDelete {
			n, err := tx.DeleteProductsBySubcategory(ctx, id)
			if err != nil {
				return err
			}
			out.ProductsRemoved = n
		}

		groups, err := tx.DeleteGroupsBySubcategory(ctx, id)
		if err != nil {
			return err
		}
		out.GroupsRemoved = groups

		return tx.DeleteSubcategory(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	out.Deleted = true
	return out, nil
}

// DeleteGroup is the leaf case: no child rows to cascade, only products
// linked through group_id to reassign or remove.
func (c *Coordinator) DeleteGroup(ctx context.Context, id int64, opts DeleteOptions) (*DeleteOutcome, error) {
	count, err := c.store.CountProductsInGroup(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("linkage check: %w", err)
	}

	if count > 0 && !opts.ForceDelete && opts.ReassignTo == nil {
		return &DeleteOutcome{HasProducts: true, ProductCount: count}, nil
	}

	if opts.ReassignTo != nil {
		if *opts.ReassignTo == id {
			return nil, ErrReassignIntoSelf
		}
		if _, err := c.store.GetGroupByID(ctx, *opts.ReassignTo); err != nil {
			if errors.Is(err, ErrGroupNotFound) {
				return nil, ErrReassignTargetNotFound
			}
			return nil, fmt.Errorf("validate reassignment target: %w", err)
		}
	}

	out := &DeleteOutcome{ProductCount: count}

	defer metrics.TrackDBOperation("delete_group")(time.Now())
	err = c.store.WithTx(ctx, func(tx Store) error {
		if opts.ReassignTo != nil {
			n, err := tx.ReassignProductsByGroup(ctx, id, *opts.ReassignTo)
			if err != nil {
				return err
			}
			out.ProductsReassigned = n
		} else if opts.ForceDelete {
			n, err := tx.DeleteProductsByGroup(ctx, id)
			if err != nil {
				return err
			}
			out.ProductsRemoved = n
		}

		return tx.DeleteGroup(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	out.Deleted = true
	return out, nil
}
