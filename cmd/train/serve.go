package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/drakos74/diabetes-risk/internal/model"
	"github.com/drakos74/diabetes-risk/internal/server"
	"github.com/drakos74/diabetes-risk/internal/storage"
	"github.com/drakos74/diabetes-risk/internal/train"
)

// PredictRequest holds the samples to classify.
type PredictRequest struct {
	X [][]float64 `json:"x"`
}

// PredictResponse holds the svm scores and the predicted classes in {0,1}.
type PredictResponse struct {
	Scores []float64 `json:"scores"`
	Y      []int     `json:"y"`
}

func predict(shard storage.Shard) server.Handler {
	return func(r *http.Request) ([]byte, int, error) {
		var request PredictRequest
		if err := server.JsonRead(r, false, &request); err != nil {
			return []byte(err.Error()), http.StatusBadRequest, nil
		}
		svm, _, err := train.LoadModel(shard)
		if err != nil {
			if errors.Is(err, storage.NotFoundErr) {
				return []byte(err.Error()), http.StatusNotFound, nil
			}
			return nil, 0, err
		}
		scores, err := svm.Score(request.X)
		if err != nil {
			return []byte(err.Error()), http.StatusBadRequest, nil
		}
		prediction, err := svm.Predict(request.X)
		if err != nil {
			return []byte(err.Error()), http.StatusBadRequest, nil
		}
		b, err := json.Marshal(PredictResponse{
			Scores: scores,
			Y:      model.Binary(prediction),
		})
		if err != nil {
			return nil, 0, err
		}
		return b, http.StatusOK, nil
	}
}

func runs(registry storage.Registry) server.Handler {
	return func(r *http.Request) ([]byte, int, error) {
		history, err := train.History(registry)
		if err != nil {
			return nil, 0, err
		}
		b, err := json.Marshal(history)
		if err != nil {
			return nil, 0, err
		}
		return b, http.StatusOK, nil
	}
}
