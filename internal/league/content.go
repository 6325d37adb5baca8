package league

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Record is a free-form league record (all-time top scorer, biggest win, ...).
type Record struct {
	ID     ID             `json:"id"`
	Fields map[string]any `json:"-"`
}

func (r *Record) UnmarshalJSON(b []byte) error {
	type plain Record
	var v plain
	extra, err := unmarshalWithExtra(b, &v)
	if err != nil {
		return err
	}
	*r = Record(v)
	r.Fields = extra
	return nil
}

func (r Record) MarshalJSON() ([]byte, error) {
	type plain Record
	return marshalWithExtra(plain(r), r.Fields)
}

// Story is a news post shown on the home page.
type Story struct {
	ID     ID             `json:"id"`
	Date   string         `json:"date"`
	Slug   string         `json:"slug,omitempty"`
	Fields map[string]any `json:"-"`
}

func (s *Story) UnmarshalJSON(b []byte) error {
	type plain Story
	var v plain
	extra, err := unmarshalWithExtra(b, &v)
	if err != nil {
		return err
	}
	*s = Story(v)
	s.Fields = extra
	return nil
}

func (s Story) MarshalJSON() ([]byte, error) {
	type plain Story
	return marshalWithExtra(plain(s), s.Fields)
}

// StoryDate is the layout of Story.Date.
const StoryDate = "1/2/2006"

func (d *Document) AddRecord(fields map[string]string, now time.Time) *Record {
	d.Records = append(d.Records, Record{
		ID:     d.NewID(now),
		Fields: fieldsToExtra(nil, fields, "id"),
	})
	return &d.Records[len(d.Records)-1]
}

func (d *Document) DeleteRecord(id ID) bool {
	n := len(d.Records)
	d.Records = slices.DeleteFunc(d.Records, func(r Record) bool { return r.ID == id })
	return len(d.Records) != n
}

// AddStory publishes a story dated today. Its slug derives from the title
// and is made unique with the story id when needed.
func (d *Document) AddStory(fields map[string]string, now time.Time) *Story {
	s := Story{
		ID:     d.NewID(now),
		Date:   now.Format(StoryDate),
		Fields: fieldsToExtra(nil, fields, "id", "date", "slug"),
	}
	s.Slug = slug.Make(Text(s.Fields, "title"))
	if s.Slug == "" {
		s.Slug = s.ID.String()
	} else if _, err := d.StoryBySlug(s.Slug); err == nil {
		s.Slug += "-" + s.ID.String()
	}
	d.Stories = append(d.Stories, s)
	return &d.Stories[len(d.Stories)-1]
}

func (d *Document) StoryBySlug(sl string) (*Story, error) {
	for i := range d.Stories {
		if d.Stories[i].Slug == sl {
			return &d.Stories[i], nil
		}
	}
	return nil, fmt.Errorf("story %q: %w", sl, ErrNotFound)
}

// DeleteStory removes a story addressed by id or, failing that, by position.
func (d *Document) DeleteStory(ref string) error {
	ref = strings.TrimSpace(ref)
	if id, err := ParseID(ref); err == nil {
		for i := range d.Stories {
			if d.Stories[i].ID == id {
				d.Stories = slices.Delete(d.Stories, i, i+1)
				return nil
			}
		}
	}
	if i, ok := Index(ref, len(d.Stories)); ok {
		d.Stories = slices.Delete(d.Stories, i, i+1)
		return nil
	}
	return fmt.Errorf("story %q: %w", ref, ErrNotFound)
}

func (d *Document) SetLiveLink(link string) {
	d.LiveLink = link
}
