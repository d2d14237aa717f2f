package model

type Board struct {
	ID            string        `json:"id"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	OwnerID       string        `json:"owner_id"`
	ShareToken    string        `json:"share_token"`
	Objects       []BoardObject `json:"objects"`
	Version       int64         `json:"version"`
	Collaborators []string      `json:"collaborators"`
	Ctime         int64         `json:"ctime"`
	Mtime         int64         `json:"mtime"`
}

func (b *Board) HasAccess(userID string) bool {
	if b.OwnerID == userID {
		return true
	}
	for _, id := range b.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

// BoardVersion is one persisted snapshot of a board's object list, recorded
// on every board_update and pruned by the retention job.
type BoardVersion struct {
	ID        string        `json:"id"`
	BoardID   string        `json:"board_id"`
	Version   int64         `json:"version"`
	Objects   []BoardObject `json:"objects"`
	CreatedBy string        `json:"created_by"`
	Ctime     int64         `json:"ctime"`
}
