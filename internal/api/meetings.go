package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hitoshi/smarttime/internal/model"
)

// MeetingService はミーティングのAPIグループ。
type MeetingService struct {
	client *Client
}

func meetingPath(id int) string { return "/meetings/" + strconv.Itoa(id) }

// GetMeetings はGET /meetings でミーティング一覧を取得する。
func (s *MeetingService) GetMeetings(ctx context.Context) ([]model.Meeting, error) {
	var out []model.Meeting
	ep := endpoint{method: http.MethodGet, pattern: "/meetings", path: "/meetings"}
	if err := s.client.doJSON(ctx, ep, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateMeeting はPOST /meetings でミーティングを作成する。
func (s *MeetingService) CreateMeeting(ctx context.Context, meeting model.MeetingCreate) (*model.Meeting, error) {
	var out model.Meeting
	ep := endpoint{method: http.MethodPost, pattern: "/meetings", path: "/meetings"}
	if err := s.client.doJSON(ctx, ep, meeting, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMeeting はPUT /meetings/{id} でミーティングを更新する。
func (s *MeetingService) UpdateMeeting(ctx context.Context, id int, meeting model.MeetingUpdate) (*model.Meeting, error) {
	var out model.Meeting
	ep := endpoint{method: http.MethodPut, pattern: "/meetings/{id}", path: meetingPath(id)}
	if err := s.client.doJSON(ctx, ep, meeting, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeeting はDELETE /meetings/{id} でミーティングを削除する。
func (s *MeetingService) DeleteMeeting(ctx context.Context, id int) error {
	ep := endpoint{method: http.MethodDelete, pattern: "/meetings/{id}", path: meetingPath(id)}
	return s.client.doJSON(ctx, ep, nil, nil)
}
