package scene

// sceneShaderSource lights models into the HDR target. Group 0 is the frame
// bind group (camera + light), group 1 the per-material bind group; both
// layouts must match what NewScene registers.
const sceneShaderSource = `
struct Camera {
    view_position: vec3<f32>,
    view: mat4x4<f32>,
    view_proj: mat4x4<f32>,
    inv_proj: mat4x4<f32>,
    inv_view: mat4x4<f32>,
}

struct Light {
    direction: vec3<f32>,
    color: vec3<f32>,
}

struct Material {
    base_color: vec4<f32>,
}

@group(0) @binding(0) var<uniform> camera: Camera;
@group(0) @binding(1) var<uniform> light: Light;
@group(1) @binding(0) var<uniform> material: Material;

struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) uv: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) world_normal: vec3<f32>,
    @location(1) uv: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.view_proj * vec4<f32>(in.position, 1.0);
    out.world_normal = in.normal;
    out.uv = in.uv;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let n = normalize(in.world_normal);
    let l = normalize(-light.direction);
    let diffuse = max(dot(n, l), 0.0);
    let ambient = 0.08;
    let lit = material.base_color.rgb * light.color * (diffuse + ambient);
    return vec4<f32>(lit, material.base_color.a);
}
`

// tonemapShaderSource maps the HDR target onto a fullscreen triangle with
// Reinhard tonemapping. Group 0 binds the HDR texture and its sampler.
const tonemapShaderSource = `
@group(0) @binding(0) var hdr_texture: texture_2d<f32>;
@group(0) @binding(1) var hdr_sampler: sampler;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) uv: vec2<f32>,
}

@vertex
fn vs_main(@builtin(vertex_index) index: u32) -> VertexOutput {
    // Fullscreen triangle from three vertices, no vertex buffer.
    var out: VertexOutput;
    let x = f32(i32(index) / 2) * 4.0 - 1.0;
    let y = f32(i32(index) % 2) * 4.0 - 1.0;
    out.clip_position = vec4<f32>(x, y, 0.0, 1.0);
    out.uv = vec2<f32>((x + 1.0) * 0.5, 1.0 - (y + 1.0) * 0.5);
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let hdr = textureSample(hdr_texture, hdr_sampler, in.uv).rgb;
    let mapped = hdr / (hdr + vec3<f32>(1.0));
    return vec4<f32>(mapped, 1.0);
}
`
