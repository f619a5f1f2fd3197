package tianapi

import (
	"daybrief/internal/catalog"
	"daybrief/internal/model"
)

// columnIDs maps TianAPI column names to canonical category keys.
var columnIDs = map[string]string{
	"国内": catalog.Domestic,
	"国际": catalog.World,
	"财经": catalog.Business,
	"科技": catalog.Technology,
	"IT": catalog.Technology,
	"体育": catalog.Sports,
	"娱乐": catalog.Entertainment,
	"科学": catalog.Science,
	"健康": catalog.Health,
	"军事": catalog.Military,
	"汽车": catalog.Auto,
	"游戏": catalog.Game,
}

// Fallback is the built-in column list served when the column endpoint is unavailable.
func Fallback() []model.CategoryDescriptor {
	return []model.CategoryDescriptor{
		{ID: catalog.General, Label: "综合"},
		{ID: catalog.Domestic, Label: "国内", ProviderCategoryRef: model.StrRef("5")},
		{ID: catalog.World, Label: "国际", ProviderCategoryRef: model.StrRef("8")},
		{ID: catalog.Business, Label: "财经", ProviderCategoryRef: model.StrRef("32")},
		{ID: catalog.Technology, Label: "科技", ProviderCategoryRef: model.StrRef("13")},
		{ID: catalog.Sports, Label: "体育", ProviderCategoryRef: model.StrRef("12")},
		{ID: catalog.Entertainment, Label: "娱乐", ProviderCategoryRef: model.StrRef("10")},
		{ID: catalog.Military, Label: "军事", ProviderCategoryRef: model.StrRef("27")},
		{ID: catalog.Auto, Label: "汽车", ProviderCategoryRef: model.StrRef("7")},
		{ID: catalog.Game, Label: "游戏", ProviderCategoryRef: model.StrRef("29")},
		{ID: catalog.Health, Label: "健康", ProviderCategoryRef: model.StrRef("17")},
	}
}
