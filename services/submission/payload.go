package submission

import "assetscan/models"

// ValidatePayload enforces the submission schema: at least one id, no
// blank ids, no repeats.
func ValidatePayload(input models.AddAssetsToBookingInput) error {
	if len(input.AssetIDs) == 0 {
		return ErrNoAssets
	}
	seen := make(map[string]struct{}, len(input.AssetIDs))
	for _, id := range input.AssetIDs {
		if id == "" {
			return ErrInvalidAssetID
		}
		if _, ok := seen[id]; ok {
			return ErrDuplicateAssetID
		}
		seen[id] = struct{}{}
	}
	return nil
}

// BuildPayload serializes staged assets in order.
func BuildPayload(assets []models.ResolvedAsset) models.AddAssetsToBookingInput {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}
	return models.AddAssetsToBookingInput{AssetIDs: ids}
}
