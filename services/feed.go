package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/cppla/feedbbs/models"
)

// ScopeKind selects which posts a feed draws from.
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota + 1
	ScopeGroup
	ScopeProfile
	ScopeFollowed
)

// Scope is a feed source. Slug is used by group scopes, Username by profile scopes.
type Scope struct {
	Kind     ScopeKind
	Slug     string
	Username string
}

// GlobalScope covers every post.
func GlobalScope() Scope { return Scope{Kind: ScopeGlobal} }

// GroupScope covers the posts of one group.
func GroupScope(slug string) Scope { return Scope{Kind: ScopeGroup, Slug: slug} }

// ProfileScope covers the posts of one author.
func ProfileScope(username string) Scope { return Scope{Kind: ScopeProfile, Username: username} }

// FollowedScope covers the posts of every author the viewer follows.
func FollowedScope() Scope { return Scope{Kind: ScopeFollowed} }

func (s Scope) String() string {
	switch s.Kind {
	case ScopeGlobal:
		return "global"
	case ScopeGroup:
		return "group:" + s.Slug
	case ScopeProfile:
		return "profile:" + s.Username
	case ScopeFollowed:
		return "followed"
	default:
		return fmt.Sprintf("scope(%d)", int(s.Kind))
	}
}

// SocialContext holds viewer-relative flags. Every field stays nil for anonymous
// viewers; IsSelf and EditingPermitted are only set when the viewer is the author.
type SocialContext struct {
	IsFollowing      *bool `json:"is_following,omitempty"`
	IsSelf           *bool `json:"is_self,omitempty"`
	EditingPermitted *bool `json:"editing_permitted,omitempty"`
}

// FeedItem is a post as seen by one viewer.
type FeedItem struct {
	models.Post
	SocialContext
}

// AuthorHeader summarises the author of a profile feed or post page.
type AuthorHeader struct {
	models.User
	SocialContext
	PostCount int64 `json:"post_count"`
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// Feed is one page of posts.
type Feed struct {
	Page   Page          `json:"pagination"`
	Items  []FeedItem    `json:"items"`
	Group  *models.Group `json:"group,omitempty"`
	Author *AuthorHeader `json:"author,omitempty"`
}

// PostView is a single post with its comments and author header.
type PostView struct {
	Post   FeedItem      `json:"post"`
	Author *AuthorHeader `json:"author"`
}

// FeedAssembler builds paginated, reverse-chronological post listings.
type FeedAssembler struct {
	db       *gorm.DB
	follows  *FollowGraph
	users    *UserService
	groups   *GroupService
	pageSize int
}

// NewFeedAssembler creates a FeedAssembler with pageSize posts per page
// (DefaultPageSize when pageSize <= 0).
func NewFeedAssembler(db *gorm.DB, pageSize int) *FeedAssembler {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &FeedAssembler{
		db:       db,
		follows:  NewFollowGraph(db),
		users:    NewUserService(db),
		groups:   NewGroupService(db),
		pageSize: pageSize,
	}
}

// Assemble returns page number of scope as seen by viewer (0 = anonymous).
func (a *FeedAssembler) Assemble(ctx context.Context, viewer uint, scope Scope, number int) (*Feed, error) {
	feed := &Feed{Items: []FeedItem{}}

	var filter func(*gorm.DB) *gorm.DB
	switch scope.Kind {
	case ScopeGlobal:
		filter = func(db *gorm.DB) *gorm.DB { return db }
	case ScopeGroup:
		slug := strings.TrimSpace(scope.Slug)
		if slug == "" {
			return nil, invalid("scope", scope.Slug, "group slug must not be empty")
		}
		group, err := a.groups.BySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		feed.Group = group
		filter = func(db *gorm.DB) *gorm.DB { return db.Where("group_id = ?", group.ID) }
	case ScopeProfile:
		username := strings.TrimSpace(scope.Username)
		if username == "" {
			return nil, invalid("scope", scope.Username, "username must not be empty")
		}
		author, err := a.users.ByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		header, err := a.authorHeader(ctx, viewer, author)
		if err != nil {
			return nil, err
		}
		feed.Author = header
		filter = func(db *gorm.DB) *gorm.DB { return db.Where("user_id = ?", author.ID) }
	case ScopeFollowed:
		if viewer == 0 {
			return nil, ErrAuthRequired
		}
		filter = func(db *gorm.DB) *gorm.DB {
			return db.Where("user_id IN (?)", a.follows.followedSubquery(ctx, viewer))
		}
	default:
		return nil, invalid("scope", scope.String(), "unknown feed scope")
	}

	var total int64
	if err := a.db.WithContext(ctx).Model(&models.Post{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, err
	}
	feed.Page = Paginate(total, a.pageSize, number)
	if total == 0 {
		return feed, nil
	}

	posts := []models.Post{}
	err := a.db.WithContext(ctx).Model(&models.Post{}).Scopes(filter).
		Preload("User").Preload("Group").
		Order("created_at DESC, id DESC").
		Offset(feed.Page.Offset()).Limit(feed.Page.Size).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	followed, err := a.followedSet(ctx, viewer)
	if err != nil {
		return nil, err
	}
	for _, post := range posts {
		feed.Items = append(feed.Items, FeedItem{Post: post, SocialContext: socialContext(viewer, post.UserID, followed)})
	}
	return feed, nil
}

// PostDetail returns one post of username with its comments in ascending order.
// A post that exists but belongs to someone else is reported as not found.
func (a *FeedAssembler) PostDetail(ctx context.Context, viewer uint, username string, postID uint) (*PostView, error) {
	author, err := a.users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}

	var post models.Post
	err = a.db.WithContext(ctx).
		Preload("User").Preload("Group").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC, id ASC") }).
		Preload("Comments.User").
		Where("id = ? AND user_id = ?", postID, author.ID).
		First(&post).Error
	if err != nil {
		return nil, storeErr(err, "post %d of %q", postID, author.Username)
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}

	header, err := a.authorHeader(ctx, viewer, author)
	if err != nil {
		return nil, err
	}
	return &PostView{
		Post:   FeedItem{Post: post, SocialContext: header.SocialContext},
		Author: header,
	}, nil
}

func (a *FeedAssembler) authorHeader(ctx context.Context, viewer uint, author *models.User) (*AuthorHeader, error) {
	header := &AuthorHeader{User: *author}
	db := a.db.WithContext(ctx)
	if err := db.Model(&models.Post{}).Where("user_id = ?", author.ID).Count(&header.PostCount).Error; err != nil {
		return nil, err
	}
	var err error
	if header.Followers, err = a.follows.FollowerCount(ctx, author.ID); err != nil {
		return nil, err
	}
	if header.Following, err = a.follows.FollowingCount(ctx, author.ID); err != nil {
		return nil, err
	}
	if viewer == 0 {
		return header, nil
	}
	following, err := a.follows.IsFollowing(ctx, viewer, author.ID)
	if err != nil {
		return nil, err
	}
	header.SocialContext = socialContext(viewer, author.ID, map[uint]bool{author.ID: following})
	return header, nil
}

func (a *FeedAssembler) followedSet(ctx context.Context, viewer uint) (map[uint]bool, error) {
	if viewer == 0 {
		return nil, nil
	}
	ids, err := a.follows.FollowedAuthors(ctx, viewer)
	if err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func socialContext(viewer, author uint, followed map[uint]bool) SocialContext {
	if viewer == 0 {
		return SocialContext{}
	}
	following := followed[author]
	sc := SocialContext{IsFollowing: &following}
	if viewer == author {
		self, editable := true, true
		sc.IsSelf = &self
		sc.EditingPermitted = &editable
	}
	return sc
}
