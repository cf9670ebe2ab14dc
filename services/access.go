package services

import "bazaar/models"

// requireOwner is the single ownership predicate applied before every
// mutating catalog or cart operation.
func requireOwner(actorID, ownerID int) error {
	if actorID != ownerID {
		return models.ErrNotOwner
	}
	return nil
}
