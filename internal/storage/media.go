package storage

import (
	"context"
	"time"

	"ptrainer/backend/internal/domain"

	"go.uber.org/zap"
)

// SignReferences returns a copy of refs whose media object keys are replaced
// by presigned GET URLs. Absolute URLs are kept. A key that cannot be signed
// is left as is. refs itself is not modified, so cached aggregates stay free
// of expiring URLs.
func SignReferences(ctx context.Context, signer MediaSigner, refs domain.References, expires time.Duration, logger *zap.Logger) domain.References {
	if signer == nil {
		return refs
	}
	sign := func(ref string) string {
		if !IsObjectKey(ref) {
			return ref
		}
		url, err := signer.GeneratePresignedDownloadURL(ctx, ref, expires)
		if err != nil {
			logger.Warn("media reference left unsigned", zap.String("key", ref), zap.Error(err))
			return ref
		}
		return url
	}

	out := refs
	out.Exercises = make(map[string]domain.ExerciseReference, len(refs.Exercises))
	for id, e := range refs.Exercises {
		e.Thumbnail = sign(e.Thumbnail)
		e.Starting = sign(e.Starting)
		e.Ending = sign(e.Ending)
		e.Video = sign(e.Video)
		out.Exercises[id] = e
	}
	out.Foods = make(map[string]domain.FoodReference, len(refs.Foods))
	for id, f := range refs.Foods {
		f.Image = sign(f.Image)
		out.Foods[id] = f
	}
	return out
}
