package mapper

import (
	"encoding/json"

	"github.com/sgeraldes/hidock-next-sub000/internal/entity"
	"github.com/sgeraldes/hidock-next-sub000/internal/model"

	"gorm.io/datatypes"
)

type MeetingMapper struct{}

func NewMeetingMapper() *MeetingMapper {
	return &MeetingMapper{}
}

func (m *MeetingMapper) ToEntity(mt *model.Meeting) *entity.Meeting {
	if mt == nil {
		return nil
	}

	attendees := make([]string, 0)
	if len(mt.Attendees) > 0 {
		// Malformed attendee JSON from ingestion degrades to an empty list.
		_ = json.Unmarshal(mt.Attendees, &attendees)
	}

	return &entity.Meeting{
		Id:            mt.Id,
		Subject:       mt.Subject,
		StartTime:     mt.StartTime.UTC(),
		EndTime:       mt.EndTime.UTC(),
		Location:      mt.Location,
		OrganizerName: mt.OrganizerName,
		Attendees:     attendees,
	}
}

func (m *MeetingMapper) ToModel(mt *entity.Meeting) *model.Meeting {
	if mt == nil {
		return nil
	}

	attendees := mt.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	raw, _ := json.Marshal(attendees)

	return &model.Meeting{
		Id:            mt.Id,
		Subject:       mt.Subject,
		StartTime:     mt.StartTime.UTC(),
		EndTime:       mt.EndTime.UTC(),
		Location:      mt.Location,
		OrganizerName: mt.OrganizerName,
		Attendees:     datatypes.JSON(raw),
	}
}

func (m *MeetingMapper) ToEntities(meetings []*model.Meeting) []*entity.Meeting {
	entities := make([]*entity.Meeting, len(meetings))
	for i, mt := range meetings {
		entities[i] = m.ToEntity(mt)
	}
	return entities
}
