package main

import (
	"context"
	"flag"
	"log"

	"github.com/sgeraldes/hidock-next-sub000/internal/config"
	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/pkg/logger"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/specification"
	"github.com/sgeraldes/hidock-next-sub000/internal/repository/unitofwork"
	"github.com/sgeraldes/hidock-next-sub000/internal/service"
	"github.com/sgeraldes/hidock-next-sub000/pkg/database"
	"github.com/sgeraldes/hidock-next-sub000/pkg/events"
	"github.com/sgeraldes/hidock-next-sub000/pkg/filestore"

	"github.com/fatih/color"
)

func main() {
	fix := flag.Bool("fix", false, "repair inconsistent rows and assign default tiers")
	flag.Parse()

	cfg := config.Load()
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}
	files, err := filestore.NewLocalStore(cfg.Storage.RecordingsDir)
	if err != nil {
		log.Fatal("Error: recordings directory:", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)

	color.Cyan("DATA INTEGRITY CHECK (recordings in %s)", files.Root())

	recordings, err := uowFactory.NewUnitOfWork(ctx).RecordingRepository().FindAll(ctx, specification.OrderBy{Field: "date_recorded"})
	if err != nil {
		log.Fatal("Error: Failed to load recordings:", err)
	}

	var broken []*entity.Recording
	for _, r := range recordings {
		problems := inspect(r, files)
		if len(problems) == 0 {
			continue
		}
		broken = append(broken, r)
		for _, p := range problems {
			color.Red("  %s (%s): %s", r.Filename, r.Id, p)
		}
	}

	if len(broken) == 0 {
		color.Green("All %d recordings are consistent.", len(recordings))
	} else {
		color.Yellow("%d of %d recordings are inconsistent.", len(broken), len(recordings))
	}

	if !*fix {
		return
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Fatal("Error: begin:", err)
	}
	defer uow.Rollback()

	for _, r := range broken {
		onLocal := r.OnLocal && r.FilePath != nil && files.PathExists(*r.FilePath)
		if !onLocal {
			r.FilePath = nil
		}
		r.SetPresence(r.OnDevice, onLocal)
		if err := uow.RecordingRepository().Update(ctx, r); err != nil {
			log.Fatal("Error: repair ", r.Filename, ": ", err)
		}
	}
	if err := uow.Commit(); err != nil {
		log.Fatal("Error: commit:", err)
	}
	color.Green("Repaired %d recordings.", len(broken))

	storage := service.NewStoragePolicyService(uowFactory, cfg.RetentionPolicy(), files, events.NewBus(), logger.NewNopLogger())
	res, err := storage.InitializeUntieredRecordings(ctx)
	if err != nil {
		log.Fatal("Error: initialize tiers:", err)
	}
	color.Green("Assigned default tiers to %d recordings %v.", res.Initialized, res.ByTier)
}

func inspect(r *entity.Recording, files filestore.Store) []string {
	var problems []string
	if want := entity.DeriveLocation(r.OnDevice, r.OnLocal); r.Location != want {
		problems = append(problems, "location is "+string(r.Location)+", flags say "+string(want))
	}
	if r.OnLocal && r.FilePath == nil {
		problems = append(problems, "on_local without a file path")
	}
	if r.OnLocal && r.FilePath != nil && !files.PathExists(*r.FilePath) {
		problems = append(problems, "local file missing at "+*r.FilePath)
	}
	return problems
}
