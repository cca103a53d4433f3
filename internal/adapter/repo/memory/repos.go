package memory

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/AdityaU3672/recruiterbook-api/internal/domain"
)

func notFound(op string) error { return fmt.Errorf("op=%s: %w", op, domain.ErrNotFound) }
func conflict(op string) error { return fmt.Errorf("op=%s: %w", op, domain.ErrConflict) }

type userRepo struct{ ss session }

func (r userRepo) Create(_ domain.Context, u domain.User) (domain.User, error) {
	err := r.ss.do(func(st *state) error {
		if u.ID == "" {
			u.ID = uuid.New().String()
		}
		if _, ok := st.users[u.ID]; ok {
			return conflict("user.create")
		}
		if u.ExternalID != nil {
			for _, existing := range st.users {
				if existing.ExternalID != nil && *existing.ExternalID == *u.ExternalID {
					return conflict("user.create")
				}
			}
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = time.Now().UTC()
		}
		st.users[u.ID] = u
		return nil
	})
	return u, err
}

func (r userRepo) Get(_ domain.Context, id string) (domain.User, error) {
	var u domain.User
	err := r.ss.do(func(st *state) error {
		var ok bool
		if u, ok = st.users[id]; !ok {
			return notFound("user.get")
		}
		return nil
	})
	return u, err
}

func (r userRepo) FindByExternalID(_ domain.Context, externalID string) (domain.User, error) {
	var u domain.User
	err := r.ss.do(func(st *state) error {
		for _, existing := range st.users {
			if existing.ExternalID != nil && *existing.ExternalID == externalID {
				u = existing
				return nil
			}
		}
		return notFound("user.find_external")
	})
	return u, err
}

type companyRepo struct{ ss session }

func (r companyRepo) Create(_ domain.Context, c domain.Company) (domain.Company, error) {
	err := r.ss.do(func(st *state) error {
		if c.ID == "" {
			c.ID = uuid.New().String()
		}
		for _, existing := range st.companies {
			if existing.Name == c.Name {
				return conflict("company.create")
			}
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now().UTC()
		}
		st.companies[c.ID] = c
		return nil
	})
	return c, err
}

func (r companyRepo) Get(_ domain.Context, id string) (domain.Company, error) {
	var c domain.Company
	err := r.ss.do(func(st *state) error {
		var ok bool
		if c, ok = st.companies[id]; !ok {
			return notFound("company.get")
		}
		return nil
	})
	return c, err
}

func (r companyRepo) GetByName(_ domain.Context, name string) (domain.Company, error) {
	var c domain.Company
	err := r.ss.do(func(st *state) error {
		for _, existing := range st.companies {
			if existing.Name == name {
				c = existing
				return nil
			}
		}
		return notFound("company.get_by_name")
	})
	return c, err
}

func (r companyRepo) List(_ domain.Context) ([]domain.Company, error) {
	var out []domain.Company
	err := r.ss.do(func(st *state) error {
		for _, c := range st.companies {
			out = append(out, c)
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Company) int { return cmp.Compare(a.Name, b.Name) })
	return out, err
}

func (r companyRepo) Delete(_ domain.Context, id string) error {
	return r.ss.do(func(st *state) error {
		if _, ok := st.companies[id]; !ok {
			return notFound("company.delete")
		}
		for _, rec := range st.recruiters {
			if rec.CompanyID == id {
				return conflict("company.delete")
			}
		}
		delete(st.companies, id)
		return nil
	})
}

func (r companyRepo) UpdateIndustry(_ domain.Context, id string, industry domain.Industry) error {
	return r.ss.do(func(st *state) error {
		c, ok := st.companies[id]
		if !ok {
			return notFound("company.update_industry")
		}
		c.Industry = industry
		st.companies[id] = c
		return nil
	})
}

type recruiterRepo struct{ ss session }

// withCompany fills the denormalized company fields the way the SQL join does.
func withCompany(st *state, rec domain.Recruiter) domain.Recruiter {
	if c, ok := st.companies[rec.CompanyID]; ok {
		rec.CompanyName = c.Name
		rec.Industry = c.Industry
	}
	return rec
}

func (r recruiterRepo) Create(_ domain.Context, rec domain.Recruiter) (domain.Recruiter, error) {
	err := r.ss.do(func(st *state) error {
		if rec.ID == "" {
			rec.ID = uuid.New().String()
		}
		if _, ok := st.companies[rec.CompanyID]; !ok {
			return notFound("recruiter.create")
		}
		for _, existing := range st.recruiters {
			if existing.FullName == rec.FullName && existing.CompanyID == rec.CompanyID {
				return conflict("recruiter.create")
			}
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = time.Now().UTC()
		}
		st.recruiters[rec.ID] = rec
		rec = withCompany(st, rec)
		return nil
	})
	return rec, err
}

func (r recruiterRepo) Get(_ domain.Context, id string) (domain.Recruiter, error) {
	var rec domain.Recruiter
	err := r.ss.do(func(st *state) error {
		found, ok := st.recruiters[id]
		if !ok {
			return notFound("recruiter.get")
		}
		rec = withCompany(st, found)
		return nil
	})
	return rec, err
}

// GetForUpdate is Get; transactions are already serialized.
func (r recruiterRepo) GetForUpdate(ctx domain.Context, id string) (domain.Recruiter, error) {
	return r.Get(ctx, id)
}

func (r recruiterRepo) FindByNameAndCompany(_ domain.Context, fullName, companyID string) (domain.Recruiter, error) {
	var rec domain.Recruiter
	err := r.ss.do(func(st *state) error {
		for _, existing := range st.recruiters {
			if existing.FullName == fullName && existing.CompanyID == companyID {
				rec = withCompany(st, existing)
				return nil
			}
		}
		return notFound("recruiter.find_by_name")
	})
	return rec, err
}

func (r recruiterRepo) list(filter func(domain.Recruiter) bool) ([]domain.Recruiter, error) {
	var out []domain.Recruiter
	err := r.ss.do(func(st *state) error {
		for _, rec := range st.recruiters {
			if filter(rec) {
				out = append(out, withCompany(st, rec))
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Recruiter) int {
		return cmp.Or(cmp.Compare(a.FullName, b.FullName), cmp.Compare(a.ID, b.ID))
	})
	return out, err
}

func (r recruiterRepo) List(_ domain.Context) ([]domain.Recruiter, error) {
	return r.list(func(domain.Recruiter) bool { return true })
}

func (r recruiterRepo) ListByCompany(_ domain.Context, companyID string) ([]domain.Recruiter, error) {
	return r.list(func(rec domain.Recruiter) bool { return rec.CompanyID == companyID })
}

func (r recruiterRepo) update(op, id string, fn func(rec *domain.Recruiter)) error {
	return r.ss.do(func(st *state) error {
		rec, ok := st.recruiters[id]
		if !ok {
			return notFound(op)
		}
		fn(&rec)
		st.recruiters[id] = rec
		return nil
	})
}

func (r recruiterRepo) UpdateAverages(_ domain.Context, id string, avg domain.Averages) error {
	return r.update("recruiter.update_averages", id, func(rec *domain.Recruiter) { rec.Averages = avg })
}

func (r recruiterRepo) UpdateSummary(_ domain.Context, id string, summary string) error {
	return r.update("recruiter.update_summary", id, func(rec *domain.Recruiter) { rec.Summary = summary })
}

func (r recruiterRepo) UpdateVerified(_ domain.Context, id string, verified bool) error {
	return r.update("recruiter.update_verified", id, func(rec *domain.Recruiter) { rec.Verified = verified })
}

type reviewRepo struct{ ss session }

func (r reviewRepo) Create(_ domain.Context, rv domain.Review) (domain.Review, error) {
	err := r.ss.do(func(st *state) error {
		if _, ok := st.recruiters[rv.RecruiterID]; !ok {
			return notFound("review.create")
		}
		for _, existing := range st.reviews {
			if existing.UserID == rv.UserID && existing.RecruiterID == rv.RecruiterID {
				return conflict("review.create")
			}
		}
		st.nextReviewID++
		rv.ID = st.nextReviewID
		now := time.Now().UTC()
		rv.CreatedAt, rv.UpdatedAt = now, now
		st.reviews[rv.ID] = rv
		return nil
	})
	return rv, err
}

func (r reviewRepo) Get(_ domain.Context, id int64) (domain.Review, error) {
	var rv domain.Review
	err := r.ss.do(func(st *state) error {
		var ok bool
		if rv, ok = st.reviews[id]; !ok {
			return notFound("review.get")
		}
		return nil
	})
	return rv, err
}

// GetForUpdate is Get; transactions are already serialized.
func (r reviewRepo) GetForUpdate(ctx domain.Context, id int64) (domain.Review, error) {
	return r.Get(ctx, id)
}

func (r reviewRepo) FindByUserAndRecruiter(_ domain.Context, userID, recruiterID string) (domain.Review, error) {
	var rv domain.Review
	err := r.ss.do(func(st *state) error {
		for _, existing := range st.reviews {
			if existing.UserID == userID && existing.RecruiterID == recruiterID {
				rv = existing
				return nil
			}
		}
		return notFound("review.find_by_user")
	})
	return rv, err
}

func (r reviewRepo) list(filter func(st *state, rv domain.Review) bool) ([]domain.Review, error) {
	var out []domain.Review
	err := r.ss.do(func(st *state) error {
		for _, rv := range st.reviews {
			if filter(st, rv) {
				out = append(out, rv)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Review) int { return cmp.Compare(a.ID, b.ID) })
	return out, err
}

func (r reviewRepo) ListByRecruiter(_ domain.Context, recruiterID string) ([]domain.Review, error) {
	return r.list(func(_ *state, rv domain.Review) bool { return rv.RecruiterID == recruiterID })
}

func (r reviewRepo) ListByCompany(_ domain.Context, companyID string) ([]domain.Review, error) {
	return r.list(func(st *state, rv domain.Review) bool {
		return st.recruiters[rv.RecruiterID].CompanyID == companyID
	})
}

func (r reviewRepo) List(_ domain.Context) ([]domain.Review, error) {
	return r.list(func(*state, domain.Review) bool { return true })
}

func (r reviewRepo) Update(_ domain.Context, rv domain.Review) (domain.Review, error) {
	err := r.ss.do(func(st *state) error {
		existing, ok := st.reviews[rv.ID]
		if !ok {
			return notFound("review.update")
		}
		existing.Ratings = rv.Ratings
		existing.Text = rv.Text
		existing.UpdatedAt = time.Now().UTC()
		st.reviews[rv.ID] = existing
		rv = existing
		return nil
	})
	return rv, err
}

func (r reviewRepo) Delete(_ domain.Context, id int64) error {
	return r.ss.do(func(st *state) error {
		if _, ok := st.reviews[id]; !ok {
			return notFound("review.delete")
		}
		for k := range st.votes {
			if k.reviewID == id {
				delete(st.votes, k)
			}
		}
		delete(st.reviews, id)
		return nil
	})
}

func (r reviewRepo) SetVoteCounts(_ domain.Context, id int64, upvotes, downvotes int) (domain.Review, error) {
	var rv domain.Review
	err := r.ss.do(func(st *state) error {
		var ok bool
		if rv, ok = st.reviews[id]; !ok {
			return notFound("review.set_vote_counts")
		}
		rv.Upvotes, rv.Downvotes = max(upvotes, 0), max(downvotes, 0)
		st.reviews[id] = rv
		return nil
	})
	return rv, err
}

type voteRepo struct{ ss session }

func (r voteRepo) Get(_ domain.Context, reviewID int64, userID string) (domain.Vote, error) {
	var v domain.Vote
	err := r.ss.do(func(st *state) error {
		var ok bool
		if v, ok = st.votes[voteKey{reviewID, userID}]; !ok {
			return notFound("vote.get")
		}
		return nil
	})
	return v, err
}

func (r voteRepo) Create(_ domain.Context, v domain.Vote) error {
	return r.ss.do(func(st *state) error {
		k := voteKey{v.ReviewID, v.UserID}
		if _, ok := st.reviews[v.ReviewID]; !ok {
			return notFound("vote.create")
		}
		if _, ok := st.votes[k]; ok {
			return conflict("vote.create")
		}
		if v.CreatedAt.IsZero() {
			v.CreatedAt = time.Now().UTC()
		}
		st.votes[k] = v
		return nil
	})
}

func (r voteRepo) UpdateDirection(_ domain.Context, reviewID int64, userID string, d domain.VoteDirection) error {
	return r.ss.do(func(st *state) error {
		k := voteKey{reviewID, userID}
		v, ok := st.votes[k]
		if !ok {
			return notFound("vote.update_direction")
		}
		v.Direction = d
		st.votes[k] = v
		return nil
	})
}

func (r voteRepo) Delete(_ domain.Context, reviewID int64, userID string) error {
	return r.ss.do(func(st *state) error {
		k := voteKey{reviewID, userID}
		if _, ok := st.votes[k]; !ok {
			return notFound("vote.delete")
		}
		delete(st.votes, k)
		return nil
	})
}

func (r voteRepo) ListByUser(_ domain.Context, userID string) ([]domain.Vote, error) {
	var out []domain.Vote
	err := r.ss.do(func(st *state) error {
		for k, v := range st.votes {
			if k.userID == userID {
				out = append(out, v)
			}
		}
		return nil
	})
	slices.SortFunc(out, func(a, b domain.Vote) int { return cmp.Compare(a.ReviewID, b.ReviewID) })
	return out, err
}

type featuredRepo struct{ ss session }

func (r featuredRepo) List(_ domain.Context) ([]domain.FeaturedRecruiter, error) {
	var out []domain.FeaturedRecruiter
	err := r.ss.do(func(st *state) error {
		for _, f := range st.featured {
			if _, ok := st.recruiters[f.RecruiterID]; ok {
				out = append(out, f)
			}
		}
		return nil
	})
	slices.SortStableFunc(out, func(a, b domain.FeaturedRecruiter) int { return cmp.Compare(a.DisplayOrder, b.DisplayOrder) })
	return out, err
}

func (r featuredRepo) Replace(_ domain.Context, items []domain.FeaturedRecruiter) error {
	return r.ss.do(func(st *state) error {
		for _, f := range items {
			if _, ok := st.recruiters[f.RecruiterID]; !ok {
				return notFound("featured.replace")
			}
		}
		st.featured = slices.Clone(items)
		return nil
	})
}
