package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/drakos74/diabetes-risk/infra/config"
	"github.com/drakos74/diabetes-risk/internal/data"
	"github.com/drakos74/diabetes-risk/internal/math/ml"
	"github.com/drakos74/diabetes-risk/internal/metrics"
	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/drakos74/diabetes-risk/internal/server"
	"github.com/drakos74/diabetes-risk/internal/storage/file/json"
	"github.com/drakos74/diabetes-risk/internal/train"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	svmTable = "svm"
	runsPath = "runs"
)

var (
	configFile = flag.String("config", "infra/config/train.json", "json config file")
	dataFile   = flag.String("data", "", "csv file with the survey data")
	storageDir = flag.String("storage", "", "root directory of the file storage")
	seed       = flag.Uint64("seed", 0, "seed for shuffling, balancing and splitting")
	folds      = flag.Int("folds", 0, "number of cross validation folds")
	workers    = flag.Int("workers", -1, "number of folds trained in parallel, 0 for all")
	network    = flag.Bool("network", false, "also train the neural network")
	forest     = flag.Bool("forest", false, "also train the random forest baseline")
	neighbours = flag.Bool("knn", false, "also train the k nearest neighbours baseline")
	port       = flag.Int("metrics", 0, "port to serve metrics and the model on, 0 to exit after training")
	debug      = flag.Bool("debug", false, "debug logging")
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func main() {
	flag.Parse()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := defaultConfig()
	if err := config.LoadFile(*configFile, &cfg); err != nil {
		log.Warn().Err(err).Msg("using default config")
	}
	override(&cfg)

	run, err := execute(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("training failed")
	}

	registry := json.NewEventRegistry(cfg.Storage, runsPath)
	if err := train.Record(registry, run); err != nil {
		log.Error().Err(err).Msg("could not record run")
	}

	if *port > 0 {
		s := server.NewServer("diabetes-risk", *port).
			Add(server.Live()).
			AddRoute(server.POST, server.Api, "predict", predict(json.RootShard(cfg.Storage, svmTable))).
			AddRoute(server.GET, server.Api, "runs", runs(registry)).
			Handle(server.Metrics, metrics.Handler())
		if *debug {
			s.Debug()
		}
		if err := s.Run(); err != nil {
			log.Fatal().Err(err).Msg("could not serve")
		}
	}
}

func override(cfg *Config) {
	if *dataFile != "" {
		cfg.Data.File = *dataFile
	}
	if *storageDir != "" {
		cfg.Storage = *storageDir
	}
	if *seed > 0 {
		cfg.Data.Seed = *seed
		cfg.Train.Seed = *seed
	}
	if *folds > 0 {
		cfg.Train.Folds = *folds
	}
	if *workers >= 0 {
		cfg.Train.Workers = *workers
	}
	if *network {
		cfg.Models.Network = true
	}
	if *forest {
		cfg.Models.Forest = true
	}
	if *neighbours {
		cfg.Models.KNN = true
	}
}

func execute(cfg Config) (train.Run, error) {
	prepared, err := data.Preprocess(cfg.Data)
	if err != nil {
		return train.Run{}, fmt.Errorf("could not preprocess data: %w", err)
	}
	if prepared.Test.Len() == 0 {
		return train.Run{}, fmt.Errorf("no test set for test ratio %v: %w", cfg.Data.TestRatio, model.EmptyDatasetErr)
	}

	report, err := train.CrossValidate(prepared.Train, cfg.Train)
	if err != nil {
		return train.Run{}, err
	}
	for _, f := range report.Folds {
		log.Info().
			Int("fold", f.Index).
			Str("score", f.Score.String()).
			Msg("cross validation")
	}
	log.Info().
		Str("score", report.Mean.String()).
		Msg("average cross validation")

	pipeline, err := train.NewPipeline(cfg.Train, json.RootShard(cfg.Storage, svmTable))
	if err != nil {
		return train.Run{}, err
	}
	result, err := pipeline.Run(prepared.Train, prepared.Test)
	if err != nil {
		if !errors.Is(err, train.PersistenceErr) {
			return train.Run{}, err
		}
		log.Error().Err(err).Msg("could not persist final model")
	}

	run := train.NewRun(cfg.Train, prepared.Train.Len(), report, result)

	if cfg.Models.Network {
		score, err := trainNetwork(cfg, prepared.Train, prepared.Test)
		if err != nil {
			return run, fmt.Errorf("could not train network: %w", err)
		}
		run.Network = &score
	}

	if cfg.Models.Forest {
		score, err := trainForest(cfg, prepared.Train, prepared.Test)
		if err != nil {
			return run, fmt.Errorf("could not train forest: %w", err)
		}
		run.Forest = &score
	}

	if cfg.Models.KNN {
		score, err := trainKNN(cfg, prepared.Train, prepared.Test)
		if err != nil {
			return run, fmt.Errorf("could not train knn: %w", err)
		}
		run.KNN = &score
	}

	return run, nil
}

func trainNetwork(cfg Config, trainSet, test model.Dataset) (ml.Score, error) {
	fit, validation, err := data.Split(trainSet, cfg.Validation, cfg.Data.Seed)
	if err != nil {
		return ml.Score{}, err
	}
	net, err := ml.NewNeuralNet(trainSet.Dim(), cfg.Network, cfg.Train.Seed)
	if err != nil {
		return ml.Score{}, err
	}
	losses, err := net.Fit(fit, validation)
	if err != nil {
		return ml.Score{}, err
	}
	metrics.Observer.Fit(metrics.Network, metrics.Test)
	return evaluate(metrics.Network, net, test, losses[len(losses)-1])
}

func trainForest(cfg Config, trainSet, test model.Dataset) (ml.Score, error) {
	rf, err := ml.NewForest(cfg.Trees)
	if err != nil {
		return ml.Score{}, err
	}
	importance, err := rf.Fit(trainSet.X, trainSet.Y)
	if err != nil {
		return ml.Score{}, err
	}
	for i, f := range trainSet.Features {
		if i < len(importance) {
			log.Debug().Str("feature", f).Float64("importance", importance[i]).Msg("forest")
		}
	}
	metrics.Observer.Fit(metrics.Forest, metrics.Test)
	return evaluate(metrics.Forest, rf, test, 0)
}

func trainKNN(cfg Config, trainSet, test model.Dataset) (ml.Score, error) {
	c, err := ml.NewKNN(cfg.Neighbours)
	if err != nil {
		return ml.Score{}, err
	}
	if err := c.Fit(trainSet.X, trainSet.Y); err != nil {
		return ml.Score{}, err
	}
	metrics.Observer.Fit(metrics.KNN, metrics.Test)
	return evaluate(metrics.KNN, c, test, 0)
}

type predictor interface {
	Predict(x [][]float64) ([]int, error)
}

func evaluate(name string, p predictor, test model.Dataset, loss float64) (ml.Score, error) {
	prediction, err := p.Predict(test.X)
	if err != nil {
		return ml.Score{}, err
	}
	score, err := ml.Evaluate(test.Y, prediction)
	if err != nil {
		return ml.Score{}, err
	}
	metrics.Observer.Score(name, metrics.Test, metrics.NoFold, score)
	log.Info().
		Str("model", name).
		Float64("loss", loss).
		Str("score", score.String()).
		Msg("test evaluation")
	return score, nil
}
