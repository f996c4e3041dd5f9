package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/busfactor/guardian/internal/adapters/repository"
	"github.com/busfactor/guardian/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleSnapshot = `{
  "people": [
    {
      "id": "ana",
      "name": "Ana",
      "role": "backend",
      "zone": "PE/Lima",
      "access_tags": ["prod"],
      "skills": [
        {
          "name": "go",
          "level": 4.2,
          "last_shown": "2026-05-01",
          "evidence": [
            "https://git.example/pr/11",
            {"url": "https://git.example/pr/12", "date": "2026-04-02"},
            "{\"url\": \"https://git.example/pr/13\", \"fecha\": \"2025-12-24\"}"
          ]
        }
      ]
    },
    {"id": "bruno", "name": "Bruno", "role": "sre", "skills": []}
  ],
  "collaborations": [
    {"a": "ana", "b": "bruno", "shared_projects": 3, "positive": 6, "frequency": 2.5, "last_interaction": "2026-06-15"}
  ],
  "conflicts": [
    {"a": "ana", "b": "bruno", "kind": "manual"}
  ],
  "availability": {"2026-W36": {"ana": 32}}
}`

func writeSnapshot(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "org.json")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSnapshotLoading(t *testing.T) {
	ctx := context.Background()

	Convey("Given a snapshot file with mixed evidence shapes", t, func() {
		path := writeSnapshot(t, sampleSnapshot)

		Convey("When the store boots from it", func() {
			m, err := repository.NewMemoryStore(repository.WithSnapshotFile(path))

			Convey("Then people, edges, conflicts and hours are all seeded", func() {
				So(err, ShouldBeNil)
				So(m.Count(ctx), ShouldEqual, 2)

				edges, _ := m.AllCollaborationEdges(ctx)
				So(len(edges), ShouldEqual, 1)
				So(edges[0].Frequency, ShouldEqual, 2.5)
				So(edges[0].LastInteraction.IsZero(), ShouldBeFalse)

				conflicts, _ := m.Conflicts(ctx, []string{"ana", "bruno"})
				So(len(conflicts), ShouldEqual, 1)
				So(conflicts[0].Kind, ShouldEqual, model.ConflictManual)

				hours, _ := m.Availability(ctx, []string{"ana"}, "2026-W36")
				So(hours["ana"], ShouldEqual, 32)
			})

			Convey("Then every legacy evidence shape is normalized", func() {
				So(err, ShouldBeNil)
				out, eerr := m.EvidenceFor(ctx, "ana", []string{"go"})
				So(eerr, ShouldBeNil)

				d := out["go"]
				So(d.Level, ShouldEqual, 4.2)
				So(d.LastShown.IsZero(), ShouldBeFalse)
				So(len(d.Evidence), ShouldEqual, 3)

				So(d.Evidence[0].URL, ShouldEqual, "https://git.example/pr/11")
				So(d.Evidence[0].Dated(), ShouldBeFalse)

				So(d.Evidence[1].URL, ShouldEqual, "https://git.example/pr/12")
				So(d.Evidence[1].Dated(), ShouldBeTrue)

				So(d.Evidence[2].URL, ShouldEqual, "https://git.example/pr/13")
				So(d.Evidence[2].Dated(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a missing snapshot file", t, func() {
		_, err := repository.ReadSnapshot(filepath.Join(t.TempDir(), "absent.json"))

		Convey("Then the snapshot sentinel wraps the failure", func() {
			So(errors.Is(err, repository.ErrSnapshot), ShouldBeTrue)
		})
	})

	Convey("Given malformed JSON", t, func() {
		path := writeSnapshot(t, "{not json")
		_, err := repository.ReadSnapshot(path)

		Convey("Then parsing fails with the snapshot sentinel", func() {
			So(errors.Is(err, repository.ErrSnapshot), ShouldBeTrue)
		})
	})

	Convey("Given a snapshot with a blank person id", t, func() {
		m, err := repository.NewMemoryStore()
		So(err, ShouldBeNil)
		lerr := m.Load(&repository.Snapshot{People: []repository.SnapshotPerson{{Name: "Nameless"}}})

		Convey("Then loading refuses it", func() {
			So(errors.Is(lerr, repository.ErrSnapshot), ShouldBeTrue)
		})
	})

	Convey("Given a nil snapshot", t, func() {
		m, err := repository.NewMemoryStore()
		So(err, ShouldBeNil)

		Convey("Then loading refuses it", func() {
			So(errors.Is(m.Load(nil), repository.ErrSnapshot), ShouldBeTrue)
		})
	})
}
