package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符
// 0 保留为无效 ID，用作"无父节点"
type EntityID uint64

// NoEntity 无效实体
const NoEntity EntityID = 0

// EntityManager 管理所有实体和组件
//
// 舞台上的每个可显示节点（角色根节点、表情槽、CG、CG 装饰）都是一个实体，
// EntityManager 因此也充当场景图：节点之间的父子关系由 NodeComponent 描述。
//
// 组件按类型分表存储，组合查询从最小的表开始遍历。
// 舞台节点在场景生命周期内只增不减，因此不提供删除实体。
type EntityManager struct {
	nextID EntityID
	alive  map[EntityID]struct{}
	// 组件表: ComponentType -> EntityID -> Component实例
	stores map[reflect.Type]map[EntityID]interface{}
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1, // ID从1开始,0保留为无效ID
		alive:  make(map[EntityID]struct{}),
		stores: make(map[reflect.Type]map[EntityID]interface{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// Exists 检查实体是否存在
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// EntityCount 返回当前实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.alive)
}

// AddComponent 为实体添加组件
// 同类型组件会被覆盖；实体不存在时忽略
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	em.add(id, reflect.TypeOf(component), component)
}

func (em *EntityManager) add(id EntityID, componentType reflect.Type, component interface{}) {
	if !em.Exists(id) {
		return
	}
	store, ok := em.stores[componentType]
	if !ok {
		store = make(map[EntityID]interface{})
		em.stores[componentType] = store
	}
	store[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if store, ok := em.stores[componentType]; ok {
		delete(store, id)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	comp, found := em.stores[componentType][id]
	return comp, found
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, found := em.stores[componentType][id]
	return found
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按 ID 升序，保证遍历顺序稳定）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	if len(componentTypes) == 0 {
		for id := range em.alive {
			result = append(result, id)
		}
		sortIDs(result)
		return result
	}

	// 从最小的组件表开始
	smallest := em.stores[componentTypes[0]]
	for _, ct := range componentTypes[1:] {
		if len(em.stores[ct]) < len(smallest) {
			smallest = em.stores[ct]
		}
	}

	for id := range smallest {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := em.stores[ct][id]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sortIDs(result)
	return result
}

func sortIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
