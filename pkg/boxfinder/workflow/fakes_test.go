package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/store"
)

// fakeDirectory is an in-memory Directory with scriptable failures
type fakeDirectory struct {
	mu        sync.Mutex
	boxes     []models.Box
	members   []models.Member
	findCalls []string
	findErrs  []error
	boxErrs   []error
	memberErr []error
	creates   int
	ops       []string

	// block, when set, is consulted before each call; a non-nil channel
	// holds the call until it is closed or the context ends.
	block func(op, arg string) chan struct{}
}

func (d *fakeDirectory) wait(ctx context.Context, op, arg string) {
	if d.block == nil {
		return
	}
	if ch := d.block(op, arg); ch != nil {
		select {
		case <-ch:
		case <-ctx.Done():
		}
	}
}

func (d *fakeDirectory) addBox(name string) models.Box {
	d.mu.Lock()
	defer d.mu.Unlock()
	b := models.Box{ID: fmt.Sprintf("box-%d", len(d.boxes)+1), Name: name, Location: name + " HQ"}
	store.PrepareBox(&b)
	d.boxes = append(d.boxes, b)
	return b
}

func (d *fakeDirectory) FindBoxesByKeyword(ctx context.Context, keyword string) ([]models.Box, error) {
	d.mu.Lock()
	d.findCalls = append(d.findCalls, keyword)
	var err error
	if len(d.findErrs) > 0 {
		err, d.findErrs = d.findErrs[0], d.findErrs[1:]
	}
	boxes := append([]models.Box(nil), d.boxes...)
	d.mu.Unlock()

	d.wait(ctx, "find", keyword)
	if err != nil {
		return nil, err
	}
	return store.FilterMatches(boxes, store.Keywords(keyword)), nil
}

func (d *fakeDirectory) CreateBox(ctx context.Context, box *models.Box) (*models.Box, error) {
	d.wait(ctx, "box", box.Name)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.creates++
	d.ops = append(d.ops, "create_box")
	if len(d.boxErrs) > 0 {
		err := d.boxErrs[0]
		d.boxErrs = d.boxErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	created := *box
	store.PrepareBox(&created)
	created.ID = fmt.Sprintf("box-%d", len(d.boxes)+1)
	d.boxes = append(d.boxes, created)
	return &created, nil
}

func (d *fakeDirectory) CreateMember(ctx context.Context, member *models.Member) (*models.Member, error) {
	d.wait(ctx, "member", member.BoxID)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ops = append(d.ops, "create_member")
	if len(d.memberErr) > 0 {
		err := d.memberErr[0]
		d.memberErr = d.memberErr[1:]
		if err != nil {
			return nil, err
		}
	}
	if member.BoxID == "" {
		return nil, store.ErrNoBox
	}
	created := *member
	created.ID = fmt.Sprintf("member-%d", len(d.members)+1)
	created.Approved = false
	d.members = append(d.members, created)
	return &created, nil
}

func (d *fakeDirectory) calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.findCalls...)
}

// writes returns the create calls in the order they were made
func (d *fakeDirectory) writes() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.ops...)
}

func (d *fakeDirectory) savedBoxes() []models.Box {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Box(nil), d.boxes...)
}

func (d *fakeDirectory) savedMembers() []models.Member {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Member(nil), d.members...)
}

func (d *fakeDirectory) boxCreates() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.creates
}

// fakePlaces returns a fixed suggestion list
type fakePlaces struct {
	calls   atomic.Int32
	results []models.Candidate
	err     error
}

func (p *fakePlaces) Lookup(ctx context.Context, text string) ([]models.Candidate, error) {
	p.calls.Add(1)
	if p.err != nil {
		return nil, p.err
	}
	return p.results, nil
}

// countingValidator counts member validations
type countingValidator struct {
	Validator
	memberCalls atomic.Int32
}

func (v *countingValidator) ValidateMember(raw map[string]any) (*models.Member, error) {
	v.memberCalls.Add(1)
	return v.Validator.ValidateMember(raw)
}

var errBoom = errors.New("boom")
