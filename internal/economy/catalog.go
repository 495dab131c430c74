package economy

import "fmt"

// UpgradeType 区分升级作用于点击产出还是被动产出
type UpgradeType string

const (
	UpgradeTypeClick   UpgradeType = "click"
	UpgradeTypePassive UpgradeType = "passive"
)

// UpgradeDefinition 是升级目录中的一条声明式记录。
// 目录是静态数据，启动时加载一次，之后只读。
type UpgradeDefinition struct {
	// ID 是升级的唯一字符串ID，作为存档台账的键，例如 "cpuMiner"
	ID string `json:"id"`

	// Name 是升级的展示名称
	Name string `json:"name"`

	// BaseEffect 是单次购买的基础效果量（递减收益前）
	BaseEffect float64 `json:"baseEffect"`

	// BaseCost 是基础价格
	BaseCost float64 `json:"baseCost"`

	// Rating 是该升级的参考难度分，用于Elo定价公式
	Rating float64 `json:"rating"`

	// Type 决定效果累加到ClickPower还是PassiveIncome
	Type UpgradeType `json:"type"`

	// CostMultiplier 是每多购买一件时价格的增长系数
	CostMultiplier float64 `json:"costMultiplier"`
}

// defaultCatalog 是内置的升级目录。
// 数值沿用0.4.0平衡版：点击系价格增长统一1.15，被动系逐级递增。
var defaultCatalog = []UpgradeDefinition{
	{ID: "betterClicker", Name: "Better Pickaxe", BaseEffect: 1, BaseCost: 10, Rating: 1000, Type: UpgradeTypeClick, CostMultiplier: 1.15},
	{ID: "cpuMiner", Name: "CPU Miner", BaseEffect: 0.1, BaseCost: 50, Rating: 1050, Type: UpgradeTypePassive, CostMultiplier: 1.2},
	{ID: "powerfulClicker", Name: "Diamond Pickaxe", BaseEffect: 5, BaseCost: 100, Rating: 1100, Type: UpgradeTypeClick, CostMultiplier: 1.15},
	{ID: "gpuRig", Name: "GPU Mining Rig", BaseEffect: 1, BaseCost: 500, Rating: 1200, Type: UpgradeTypePassive, CostMultiplier: 1.25},
	{ID: "megaClicker", Name: "Quantum Pickaxe", BaseEffect: 25, BaseCost: 1000, Rating: 1300, Type: UpgradeTypeClick, CostMultiplier: 1.15},
	{ID: "asicMiner", Name: "ASIC Miner", BaseEffect: 10, BaseCost: 5000, Rating: 1400, Type: UpgradeTypePassive, CostMultiplier: 1.3},
	{ID: "ultraClicker", Name: "Neutron Star Drill", BaseEffect: 100, BaseCost: 10000, Rating: 1500, Type: UpgradeTypeClick, CostMultiplier: 1.15},
	{ID: "miningFarm", Name: "Mining Farm", BaseEffect: 50, BaseCost: 50000, Rating: 1600, Type: UpgradeTypePassive, CostMultiplier: 1.35},
	{ID: "godClicker", Name: "Black Hole Extractor", BaseEffect: 500, BaseCost: 100000, Rating: 1700, Type: UpgradeTypeClick, CostMultiplier: 1.15},
	{ID: "datacenter", Name: "Data Center", BaseEffect: 250, BaseCost: 500000, Rating: 1800, Type: UpgradeTypePassive, CostMultiplier: 1.4},
}

// Catalog 是加载到内存中的只读升级目录。
type Catalog struct {
	idToIndex   map[string]int
	definitions []UpgradeDefinition
}

// globalCatalog 是目录的私有单例实例
var globalCatalog = mustBuildCatalog(defaultCatalog)

// NewCatalog 从一组声明式记录构建目录，ID重复或数值非法时返回错误。
func NewCatalog(definitions []UpgradeDefinition) (*Catalog, error) {
	c := &Catalog{
		idToIndex:   make(map[string]int, len(definitions)),
		definitions: make([]UpgradeDefinition, len(definitions)),
	}
	for i, def := range definitions {
		if def.ID == "" {
			return nil, fmt.Errorf("升级目录第 %d 条记录缺少ID", i)
		}
		if _, exists := c.idToIndex[def.ID]; exists {
			return nil, fmt.Errorf("升级目录中存在重复的ID: %s", def.ID)
		}
		if def.Type != UpgradeTypeClick && def.Type != UpgradeTypePassive {
			return nil, fmt.Errorf("升级 %s 的类型非法: %s", def.ID, def.Type)
		}
		if def.BaseCost <= 0 || def.CostMultiplier < 1 {
			return nil, fmt.Errorf("升级 %s 的价格参数非法", def.ID)
		}
		c.idToIndex[def.ID] = i
		c.definitions[i] = def
	}
	return c, nil
}

func mustBuildCatalog(definitions []UpgradeDefinition) *Catalog {
	c, err := NewCatalog(definitions)
	if err != nil {
		panic("内置升级目录非法: " + err.Error())
	}
	return c
}

// DefaultCatalog 返回内置目录的单例。
func DefaultCatalog() *Catalog {
	return globalCatalog
}

// Definitions 返回目录中的全部记录（按声明顺序）。
func (c *Catalog) Definitions() []UpgradeDefinition {
	return c.definitions
}

// ByID 按ID查找一条升级记录。
func (c *Catalog) ByID(id string) (UpgradeDefinition, bool) {
	index, ok := c.idToIndex[id]
	if !ok {
		return UpgradeDefinition{}, false
	}
	return c.definitions[index], true
}

// Size 返回目录中的记录数。
func (c *Catalog) Size() int {
	return len(c.definitions)
}
